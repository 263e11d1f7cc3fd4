package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hostel-backend/models"
)

// GormStore backs every repository with one *gorm.DB. Inside Transaction the
// handle is the tx, so the repositories share it.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Guests() GuestRepository             { return &gormGuestRepository{db: s.DB} }
func (s *GormStore) RoomTypes() RoomTypeRepository       { return &gormRoomTypeRepository{db: s.DB} }
func (s *GormStore) Rooms() RoomRepository               { return &gormRoomRepository{db: s.DB} }
func (s *GormStore) Reservations() ReservationRepository { return &gormReservationRepository{db: s.DB} }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}

// LockRoom takes a row lock on the room (SELECT ... FOR UPDATE). It only
// serializes anything when called inside Transaction.
func (s *GormStore) LockRoom(ctx context.Context, roomID string) error {
	var rec RoomRecord
	err := s.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&rec, "id = ?", roomID).Error
	return translateError(err, "Room", roomID)
}

// Migrate creates or updates every table.
func (s *GormStore) Migrate() error {
	return s.DB.AutoMigrate(AllRecords()...)
}

// translateError maps driver errors onto the repository and domain errors.
func translateError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isDuplicateKey(err) {
		return models.AlreadyExists(resource, key)
	}
	return err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	return false
}

// takenByOther reports whether another row already holds value in column,
// compared case-insensitively on every dialect.
func takenByOther(tx *gorm.DB, model any, column, value, id string) (bool, error) {
	var n int64
	err := tx.Model(model).
		Where("LOWER("+column+") = ? AND id <> ?", strings.ToLower(strings.TrimSpace(value)), id).
		Count(&n).Error
	return n > 0, err
}

// upsert inserts rec or updates every column when the primary key exists.
func upsert(tx *gorm.DB, model any, id string, rec any) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return tx.Omit(clause.Associations).Create(rec).Error
	}
	return tx.Model(rec).Omit(clause.Associations).Select("*").Updates(rec).Error
}
