package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"hostel-backend/models"
)

type gormGuestRepository struct {
	db *gorm.DB
}

func (r *gormGuestRepository) Save(ctx context.Context, g *models.Guest) error {
	rec := guestToRecord(g)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clash, err := takenByOther(tx, &GuestRecord{}, "email", rec.Email, rec.ID)
		if err != nil {
			return err
		}
		if clash {
			return models.AlreadyExists("Guest", rec.Email)
		}
		return upsert(tx, &GuestRecord{}, rec.ID, &rec)
	})
	return translateError(err, "Guest", rec.Email)
}

func (r *gormGuestRepository) findOne(ctx context.Context, query string, arg any) (*models.Guest, error) {
	var rec GuestRecord
	if err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error; err != nil {
		return nil, translateError(err, "Guest", "")
	}
	return guestFromRecord(rec), nil
}

func (r *gormGuestRepository) FindByID(ctx context.Context, id string) (*models.Guest, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *gormGuestRepository) FindByEmail(ctx context.Context, email string) (*models.Guest, error) {
	return r.findOne(ctx, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *gormGuestRepository) FindByDocumentNumber(ctx context.Context, documentNumber string) (*models.Guest, error) {
	return r.findOne(ctx, "document_number = ?", strings.TrimSpace(documentNumber))
}

func (r *gormGuestRepository) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*models.Guest, error) {
	var recs []GuestRecord
	if err := scope(r.db.WithContext(ctx)).Order("last_name, first_name").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*models.Guest, 0, len(recs))
	for _, rec := range recs {
		out = append(out, guestFromRecord(rec))
	}
	return out, nil
}

func (r *gormGuestRepository) FindAll(ctx context.Context) ([]*models.Guest, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB { return db })
}

// SearchByName matches the fragment against first, last or full name, case-insensitive.
func (r *gormGuestRepository) SearchByName(ctx context.Context, name string) ([]*models.Guest, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(CONCAT(first_name, ' ', last_name)) LIKE ?", like, like, like)
	})
}

func (r *gormGuestRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&GuestRecord{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&n).Error
	return n > 0, err
}

func (r *gormGuestRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&GuestRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormRoomTypeRepository struct {
	db *gorm.DB
}

func (r *gormRoomTypeRepository) Save(ctx context.Context, rt *models.RoomType) error {
	rec := roomTypeToRecord(rt)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clash, err := takenByOther(tx, &RoomTypeRecord{}, "name", rec.Name, rec.ID)
		if err != nil {
			return err
		}
		if clash {
			return models.AlreadyExists("RoomType", rec.Name)
		}
		return upsert(tx, &RoomTypeRecord{}, rec.ID, &rec)
	})
	return translateError(err, "RoomType", rec.Name)
}

func (r *gormRoomTypeRepository) FindByID(ctx context.Context, id string) (*models.RoomType, error) {
	var rec RoomTypeRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "RoomType", id)
	}
	return roomTypeFromRecord(rec), nil
}

func (r *gormRoomTypeRepository) FindByName(ctx context.Context, name string) (*models.RoomType, error) {
	var rec RoomTypeRecord
	if err := r.db.WithContext(ctx).First(&rec, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).Error; err != nil {
		return nil, translateError(err, "RoomType", name)
	}
	return roomTypeFromRecord(rec), nil
}

func (r *gormRoomTypeRepository) FindAll(ctx context.Context) ([]*models.RoomType, error) {
	var recs []RoomTypeRecord
	if err := r.db.WithContext(ctx).Order("name").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*models.RoomType, 0, len(recs))
	for _, rec := range recs {
		out = append(out, roomTypeFromRecord(rec))
	}
	return out, nil
}

func (r *gormRoomTypeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&RoomTypeRecord{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Count(&n).Error
	return n > 0, err
}

func (r *gormRoomTypeRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&RoomTypeRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
