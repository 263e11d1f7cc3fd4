package repositories

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"hostel-backend/models"
)

type gormReservationRepository struct {
	db *gorm.DB
}

func (r *gormReservationRepository) Save(ctx context.Context, res *models.Reservation) error {
	rec := reservationToRecord(res)
	guests := rec.Guests
	rec.Guests = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, &ReservationRecord{}, rec.ID, &rec); err != nil {
			return err
		}
		if err := tx.Where("reservation_id = ?", rec.ID).Delete(&ReservationGuestRecord{}).Error; err != nil {
			return err
		}
		if len(guests) > 0 {
			return tx.Create(&guests).Error
		}
		return nil
	})
	return translateError(err, "Reservation", rec.ReservationCode)
}

func (r *gormReservationRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Guests")
}

func (r *gormReservationRepository) findOne(ctx context.Context, query string, arg any) (*models.Reservation, error) {
	var rec ReservationRecord
	if err := r.base(ctx).Where(query, arg).First(&rec).Error; err != nil {
		return nil, translateError(err, "Reservation", "")
	}
	return reservationFromRecord(rec), nil
}

func (r *gormReservationRepository) find(db *gorm.DB) ([]*models.Reservation, error) {
	var recs []ReservationRecord
	if err := db.Order("check_in, reservation_code").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*models.Reservation, 0, len(recs))
	for _, rec := range recs {
		out = append(out, reservationFromRecord(rec))
	}
	return out, nil
}

func (r *gormReservationRepository) FindByID(ctx context.Context, id string) (*models.Reservation, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *gormReservationRepository) FindByReservationCode(ctx context.Context, code string) (*models.Reservation, error) {
	return r.findOne(ctx, "reservation_code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

func (r *gormReservationRepository) FindAll(ctx context.Context) ([]*models.Reservation, error) {
	return r.find(r.base(ctx))
}

// FindByGuest covers both the principal and every other member.
func (r *gormReservationRepository) FindByGuest(ctx context.Context, guestID string) ([]*models.Reservation, error) {
	members := r.db.WithContext(ctx).Model(&ReservationGuestRecord{}).
		Select("reservation_id").
		Where("guest_id = ?", guestID)
	return r.find(r.base(ctx).Where("guest_principal_id = ? OR id IN (?)", guestID, members))
}

func (r *gormReservationRepository) FindByRoom(ctx context.Context, roomID string) ([]*models.Reservation, error) {
	return r.find(r.base(ctx).Where("room_id = ?", roomID))
}

func (r *gormReservationRepository) FindByStatus(ctx context.Context, status models.StatusType) ([]*models.Reservation, error) {
	return r.find(r.base(ctx).Where("status_type = ?", string(status)))
}

func (r *gormReservationRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error) {
	return r.find(r.base(ctx).Where("check_in <= ? AND check_out >= ?", toDate(end), toDate(start)))
}

func (r *gormReservationRepository) FindActiveReservations(ctx context.Context) ([]*models.Reservation, error) {
	return r.find(r.base(ctx).Where("status_type IN ?", activeStatusValues()))
}

func (r *gormReservationRepository) FindCheckInsForDate(ctx context.Context, date time.Time) ([]*models.Reservation, error) {
	return r.find(r.base(ctx).
		Where("check_in = ?", toDate(date)).
		Where("status_type = ?", string(models.StatusConfirmed)))
}

func (r *gormReservationRepository) FindCheckOutsForDate(ctx context.Context, date time.Time) ([]*models.Reservation, error) {
	return r.find(r.base(ctx).
		Where("check_out = ?", toDate(date)).
		Where("status_type = ?", string(models.StatusCheckedIn)))
}

func (r *gormReservationRepository) FindOverlappingReservations(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*models.Reservation, error) {
	return r.find(r.base(ctx).
		Where("room_id = ?", roomID).
		Where("status_type IN ?", activeStatusValues()).
		Where("NOT (check_out <= ? OR check_in >= ?)", toDate(checkIn), toDate(checkOut)))
}

func (r *gormReservationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reservation_id = ?", id).Delete(&ReservationGuestRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&ReservationRecord{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
