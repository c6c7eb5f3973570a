package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Thalanas110/CarRentalAPI/internal/model"
	"github.com/Thalanas110/CarRentalAPI/pkg/database"
)

// mockTx is a mock implementation of pgx.Tx for testing transactions.
type mockTx struct {
	commitFn   func(ctx context.Context) error
	rollbackFn func(ctx context.Context) error
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not supported")
}

func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitFn != nil {
		return m.commitFn(ctx)
	}
	return nil
}

func (m *mockTx) Rollback(ctx context.Context) error {
	if m.rollbackFn != nil {
		return m.rollbackFn(ctx)
	}
	return nil
}

func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (m *mockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *mockTx) Conn() *pgx.Conn {
	return nil
}

// mockTxBeginner is a mock implementation of TxBeginner.
type mockTxBeginner struct {
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx)
	}
	return &mockTx{}, nil
}

// mockRentalRepository is a mock implementation of RentalRepositoryInterface
// and the narrower rental interfaces.
type mockRentalRepository struct {
	insertFn         func(ctx context.Context, tx database.TxQuerier, rental *model.Rental) error
	getByIDFn        func(ctx context.Context, id int64) (*model.Rental, error)
	getForUpdateFn   func(ctx context.Context, tx database.TxQuerier, id int64) (*model.Rental, error)
	listByUserFn     func(ctx context.Context, userID int64) ([]model.Rental, error)
	listFn           func(ctx context.Context, status string) ([]model.Rental, error)
	updateStatusFn   func(ctx context.Context, tx database.TxQuerier, id int64, status string) error
	releaseKeyFn     func(ctx context.Context, tx database.TxQuerier, id int64, at time.Time) error
	finalizeReturnFn func(ctx context.Context, tx database.TxQuerier, id int64, at time.Time, overtimeFee, totalPrice float64) error
	countLiveByCarFn func(ctx context.Context, carID int64) (int, error)
	statisticsFn     func(ctx context.Context, now time.Time) (*model.RentalStatistics, error)
}

func (m *mockRentalRepository) Insert(ctx context.Context, tx database.TxQuerier, rental *model.Rental) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, rental)
	}
	rental.ID = 1
	return nil
}

func (m *mockRentalRepository) GetByID(ctx context.Context, id int64) (*model.Rental, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrRentalNotFound
}

func (m *mockRentalRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Rental, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, id)
	}
	return nil, ErrRentalNotFound
}

func (m *mockRentalRepository) ListByUser(ctx context.Context, userID int64) ([]model.Rental, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []model.Rental{}, nil
}

func (m *mockRentalRepository) List(ctx context.Context, status string) ([]model.Rental, error) {
	if m.listFn != nil {
		return m.listFn(ctx, status)
	}
	return []model.Rental{}, nil
}

func (m *mockRentalRepository) UpdateStatus(ctx context.Context, tx database.TxQuerier, id int64, status string) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, tx, id, status)
	}
	return nil
}

func (m *mockRentalRepository) ReleaseKey(ctx context.Context, tx database.TxQuerier, id int64, at time.Time) error {
	if m.releaseKeyFn != nil {
		return m.releaseKeyFn(ctx, tx, id, at)
	}
	return nil
}

func (m *mockRentalRepository) FinalizeReturn(ctx context.Context, tx database.TxQuerier, id int64, at time.Time, overtimeFee, totalPrice float64) error {
	if m.finalizeReturnFn != nil {
		return m.finalizeReturnFn(ctx, tx, id, at, overtimeFee, totalPrice)
	}
	return nil
}

func (m *mockRentalRepository) CountLiveByCar(ctx context.Context, carID int64) (int, error) {
	if m.countLiveByCarFn != nil {
		return m.countLiveByCarFn(ctx, carID)
	}
	return 0, nil
}

func (m *mockRentalRepository) Statistics(ctx context.Context, now time.Time) (*model.RentalStatistics, error) {
	if m.statisticsFn != nil {
		return m.statisticsFn(ctx, now)
	}
	return &model.RentalStatistics{}, nil
}

// mockCarRepository is a mock implementation of CarRepositoryInterface and
// CarLockerInterface.
type mockCarRepository struct {
	insertFn        func(ctx context.Context, car *model.Car) error
	getByIDFn       func(ctx context.Context, id int64) (*model.Car, error)
	getForUpdateFn  func(ctx context.Context, tx database.TxQuerier, id int64) (*model.Car, error)
	listFn          func(ctx context.Context) ([]model.Car, error)
	listAvailableFn func(ctx context.Context) ([]model.Car, error)
	updateFn        func(ctx context.Context, car *model.Car) error
	setRentedFn     func(ctx context.Context, tx database.TxQuerier, id int64, rented bool) error
	deleteFn        func(ctx context.Context, id int64) error
	countFn         func(ctx context.Context) (int, int, error)
}

func (m *mockCarRepository) Insert(ctx context.Context, car *model.Car) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, car)
	}
	car.ID = 1
	return nil
}

func (m *mockCarRepository) GetByID(ctx context.Context, id int64) (*model.Car, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrCarNotFound
}

func (m *mockCarRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Car, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, id)
	}
	return nil, ErrCarNotFound
}

func (m *mockCarRepository) List(ctx context.Context) ([]model.Car, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Car{}, nil
}

func (m *mockCarRepository) ListAvailable(ctx context.Context) ([]model.Car, error) {
	if m.listAvailableFn != nil {
		return m.listAvailableFn(ctx)
	}
	return []model.Car{}, nil
}

func (m *mockCarRepository) Update(ctx context.Context, car *model.Car) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, car)
	}
	return nil
}

func (m *mockCarRepository) SetRented(ctx context.Context, tx database.TxQuerier, id int64, rented bool) error {
	if m.setRentedFn != nil {
		return m.setRentedFn(ctx, tx, id, rented)
	}
	return nil
}

func (m *mockCarRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockCarRepository) Count(ctx context.Context) (int, int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, 0, nil
}

// mockUserRepository is a mock implementation of UserRepositoryInterface and
// UserLockerInterface.
type mockUserRepository struct {
	insertFn        func(ctx context.Context, user *model.User) error
	getByEmailFn    func(ctx context.Context, email string) (*model.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*model.User, error)
	getForUpdateFn  func(ctx context.Context, tx database.TxQuerier, id int64) (*model.User, error)
	updateProfileFn func(ctx context.Context, user *model.User) error
	addPointsFn     func(ctx context.Context, tx database.TxQuerier, id int64, delta int) error
	setActiveFn     func(ctx context.Context, id int64, active bool) error
	listFn          func(ctx context.Context) ([]model.User, error)
	countFn         func(ctx context.Context) (int, error)
}

func (m *mockUserRepository) Insert(ctx context.Context, user *model.User) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.User, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, id)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) AddPoints(ctx context.Context, tx database.TxQuerier, id int64, delta int) error {
	if m.addPointsFn != nil {
		return m.addPointsFn(ctx, tx, id, delta)
	}
	return nil
}

func (m *mockUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, id, active)
	}
	return nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.User{}, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

// mockPromoRepository is a mock implementation of PromoRepositoryInterface
// and PromoLockerInterface.
type mockPromoRepository struct {
	insertFn         func(ctx context.Context, promo *model.Promo) error
	getByCodeFn      func(ctx context.Context, code string) (*model.Promo, error)
	getByIDFn        func(ctx context.Context, id int64) (*model.Promo, error)
	getForUpdateFn   func(ctx context.Context, tx database.TxQuerier, code string) (*model.Promo, error)
	incrementUsageFn func(ctx context.Context, tx database.TxQuerier, id int64) error
	listActiveFn     func(ctx context.Context) ([]model.Promo, error)
	listFn           func(ctx context.Context) ([]model.Promo, error)
	updateFn         func(ctx context.Context, promo *model.Promo) error
}

func (m *mockPromoRepository) Insert(ctx context.Context, promo *model.Promo) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, promo)
	}
	promo.ID = 1
	return nil
}

func (m *mockPromoRepository) GetByCode(ctx context.Context, code string) (*model.Promo, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockPromoRepository) GetByID(ctx context.Context, id int64) (*model.Promo, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrPromoNotFound
}

func (m *mockPromoRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.Promo, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, code)
	}
	return nil, ErrPromoNotFound
}

func (m *mockPromoRepository) IncrementUsage(ctx context.Context, tx database.TxQuerier, id int64) error {
	if m.incrementUsageFn != nil {
		return m.incrementUsageFn(ctx, tx, id)
	}
	return nil
}

func (m *mockPromoRepository) ListActive(ctx context.Context) ([]model.Promo, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return []model.Promo{}, nil
}

func (m *mockPromoRepository) List(ctx context.Context) ([]model.Promo, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Promo{}, nil
}

func (m *mockPromoRepository) Update(ctx context.Context, promo *model.Promo) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, promo)
	}
	return nil
}

// mockPaymentRepository is a mock implementation of
// PaymentRepositoryInterface.
type mockPaymentRepository struct {
	insertFn              func(ctx context.Context, payment *model.Payment) error
	getByIDFn             func(ctx context.Context, id int64) (*model.Payment, error)
	getForUpdateFn        func(ctx context.Context, tx database.TxQuerier, id int64) (*model.Payment, error)
	listByRentalFn        func(ctx context.Context, rentalID int64) ([]model.Payment, error)
	listPendingFn         func(ctx context.Context) ([]model.Payment, error)
	markReceivedFn        func(ctx context.Context, tx database.TxQuerier, id, adminID int64, at time.Time) error
	sumReceivedByRentalFn func(ctx context.Context, q database.TxQuerier, rentalID int64) (float64, error)
	statisticsFn          func(ctx context.Context) (*model.PaymentStatistics, error)
}

func (m *mockPaymentRepository) Insert(ctx context.Context, payment *model.Payment) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, payment)
	}
	payment.ID = 1
	return nil
}

func (m *mockPaymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrPaymentNotFound
}

func (m *mockPaymentRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Payment, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, id)
	}
	return nil, ErrPaymentNotFound
}

func (m *mockPaymentRepository) ListByRental(ctx context.Context, rentalID int64) ([]model.Payment, error) {
	if m.listByRentalFn != nil {
		return m.listByRentalFn(ctx, rentalID)
	}
	return []model.Payment{}, nil
}

func (m *mockPaymentRepository) ListPending(ctx context.Context) ([]model.Payment, error) {
	if m.listPendingFn != nil {
		return m.listPendingFn(ctx)
	}
	return []model.Payment{}, nil
}

func (m *mockPaymentRepository) MarkReceived(ctx context.Context, tx database.TxQuerier, id, adminID int64, at time.Time) error {
	if m.markReceivedFn != nil {
		return m.markReceivedFn(ctx, tx, id, adminID, at)
	}
	return nil
}

func (m *mockPaymentRepository) SumReceivedByRental(ctx context.Context, q database.TxQuerier, rentalID int64) (float64, error) {
	if m.sumReceivedByRentalFn != nil {
		return m.sumReceivedByRentalFn(ctx, q, rentalID)
	}
	return 0, nil
}

func (m *mockPaymentRepository) Statistics(ctx context.Context) (*model.PaymentStatistics, error) {
	if m.statisticsFn != nil {
		return m.statisticsFn(ctx)
	}
	return &model.PaymentStatistics{}, nil
}

// mockRatingRepository is a mock implementation of
// RatingRepositoryInterface.
type mockRatingRepository struct {
	insertFn        func(ctx context.Context, rating *model.Rating) error
	getByIDFn       func(ctx context.Context, id int64) (*model.Rating, error)
	listByCarFn     func(ctx context.Context, carID int64) ([]model.Rating, error)
	listByUserFn    func(ctx context.Context, userID int64) ([]model.Rating, error)
	updateFn        func(ctx context.Context, rating *model.Rating) error
	deleteFn        func(ctx context.Context, id int64) error
	averagesByCarFn func(ctx context.Context, carID int64) (*model.CarRatingAverages, error)
}

func (m *mockRatingRepository) Insert(ctx context.Context, rating *model.Rating) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, rating)
	}
	rating.ID = 1
	return nil
}

func (m *mockRatingRepository) GetByID(ctx context.Context, id int64) (*model.Rating, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrRatingNotFound
}

func (m *mockRatingRepository) ListByCar(ctx context.Context, carID int64) ([]model.Rating, error) {
	if m.listByCarFn != nil {
		return m.listByCarFn(ctx, carID)
	}
	return []model.Rating{}, nil
}

func (m *mockRatingRepository) ListByUser(ctx context.Context, userID int64) ([]model.Rating, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []model.Rating{}, nil
}

func (m *mockRatingRepository) Update(ctx context.Context, rating *model.Rating) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, rating)
	}
	return nil
}

func (m *mockRatingRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockRatingRepository) AveragesByCar(ctx context.Context, carID int64) (*model.CarRatingAverages, error) {
	if m.averagesByCarFn != nil {
		return m.averagesByCarFn(ctx, carID)
	}
	return &model.CarRatingAverages{}, nil
}

func intPtr(i int) *int {
	return &i
}

func floatPtr(f float64) *float64 {
	return &f
}

func strPtr(s string) *string {
	return &s
}
