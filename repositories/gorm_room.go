package repositories

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"hostel-backend/models"
)

type gormRoomRepository struct {
	db *gorm.DB
}

func (r *gormRoomRepository) Save(ctx context.Context, room *models.Room) error {
	rec, err := roomToRecord(room)
	if err != nil {
		return err
	}
	beds := rec.Beds
	rec.Beds = nil

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, &RoomRecord{}, rec.ID, &rec); err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", rec.ID).Delete(&BedRecord{}).Error; err != nil {
			return err
		}
		if len(beds) > 0 {
			return tx.Create(&beds).Error
		}
		return nil
	})
	return translateError(err, "Room", strconv.Itoa(rec.RoomNumber))
}

func (r *gormRoomRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Beds", func(db *gorm.DB) *gorm.DB {
		return db.Order("bed_number")
	})
}

func (r *gormRoomRepository) findOne(ctx context.Context, query string, arg any) (*models.Room, error) {
	var rec RoomRecord
	if err := r.base(ctx).Where(query, arg).First(&rec).Error; err != nil {
		return nil, translateError(err, "Room", "")
	}
	return roomFromRecord(rec)
}

func (r *gormRoomRepository) find(db *gorm.DB) ([]*models.Room, error) {
	var recs []RoomRecord
	if err := db.Order("rooms.room_number").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*models.Room, 0, len(recs))
	for _, rec := range recs {
		room, err := roomFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, nil
}

func (r *gormRoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *gormRoomRepository) FindByRoomNumber(ctx context.Context, number int) (*models.Room, error) {
	return r.findOne(ctx, "room_number = ?", number)
}

func (r *gormRoomRepository) FindAll(ctx context.Context) ([]*models.Room, error) {
	return r.find(r.base(ctx))
}

func (r *gormRoomRepository) FindByStatus(ctx context.Context, status models.RoomStatus) ([]*models.Room, error) {
	return r.find(r.base(ctx).Where("status = ?", string(status)))
}

// bookedRoomIDs is the subquery of rooms holding an active reservation that
// overlaps [checkIn, checkOut).
func (r *gormRoomRepository) bookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Model(&ReservationRecord{}).
		Select("room_id").
		Where("status_type IN ?", activeStatusValues()).
		Where("check_in < ? AND check_out > ?", toDate(checkOut), toDate(checkIn))
}

func (r *gormRoomRepository) FindAvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]*models.Room, error) {
	return r.find(r.base(ctx).
		Where("rooms.status = ?", string(models.RoomAvailable)).
		Where("rooms.id NOT IN (?)", r.bookedRoomIDs(ctx, checkIn, checkOut)))
}

func (r *gormRoomRepository) FindAvailableByCapacity(ctx context.Context, minCapacity int, checkIn, checkOut time.Time) ([]*models.Room, error) {
	return r.find(r.base(ctx).
		Joins("JOIN room_types ON room_types.id = rooms.room_type_id").
		Where("room_types.max_occupancy >= ?", minCapacity).
		Where("rooms.status = ?", string(models.RoomAvailable)).
		Where("rooms.id NOT IN (?)", r.bookedRoomIDs(ctx, checkIn, checkOut)))
}

func (r *gormRoomRepository) ExistsByRoomNumber(ctx context.Context, number int) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&RoomRecord{}).Where("room_number = ?", number).Count(&n).Error
	return n > 0, err
}

func (r *gormRoomRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&BedRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&RoomRecord{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func activeStatusValues() []string {
	out := make([]string, 0, len(models.ActiveStatuses))
	for _, s := range models.ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}
