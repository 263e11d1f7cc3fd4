package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"hostel-backend/models"
	"hostel-backend/repositories"
)

type GuestService struct {
	store repositories.Store
	log   logrus.FieldLogger
}

func NewGuestService(store repositories.Store, log logrus.FieldLogger) *GuestService {
	return &GuestService{store: store, log: log.WithField("component", "guests")}
}

// Create registers a guest. Emails are unique, compared case-insensitively.
func (s *GuestService) Create(ctx context.Context, p models.NewGuestParams) (*models.Guest, error) {
	guest, err := models.NewGuest(p)
	if err != nil {
		return nil, err
	}
	exists, err := s.store.Guests().ExistsByEmail(ctx, guest.Email())
	if err != nil {
		return nil, fmt.Errorf("check guest email: %w", err)
	}
	if exists {
		return nil, models.AlreadyExists("Guest", guest.Email())
	}
	if err := s.store.Guests().Save(ctx, guest); err != nil {
		return nil, persist(err, "guest")
	}
	s.log.WithField("guest_id", guest.ID()).Info("guest registered")
	return guest, nil
}

func (s *GuestService) Get(ctx context.Context, id string) (*models.Guest, error) {
	g, err := s.store.Guests().FindByID(ctx, id)
	return found(g, err, "Guest", id)
}

func (s *GuestService) List(ctx context.Context) ([]*models.Guest, error) {
	return s.store.Guests().FindAll(ctx)
}

// Search falls back to the full list for a blank query.
func (s *GuestService) Search(ctx context.Context, name string) ([]*models.Guest, error) {
	if strings.TrimSpace(name) == "" {
		return s.List(ctx)
	}
	return s.store.Guests().SearchByName(ctx, name)
}

// GuestUpdate is a partial update: nil fields keep their value.
// DateOfBirthSet with a nil DateOfBirth clears the date.
type GuestUpdate struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	DateOfBirth    *time.Time
	DateOfBirthSet bool
}

func (u GuestUpdate) touchesContact() bool {
	return u.Email != nil || u.Phone != nil
}

func (u GuestUpdate) touchesPersonal() bool {
	return u.FirstName != nil || u.LastName != nil || u.DateOfBirthSet
}

// Update validates every field of u and saves the guest once, so a rejected
// field leaves the stored guest untouched.
func (s *GuestService) Update(ctx context.Context, id string, u GuestUpdate) (*models.Guest, error) {
	var guest *models.Guest
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		g, err := tx.Guests().FindByID(ctx, id)
		if err != nil {
			return lookupErr(err, "Guest", id)
		}
		if u.touchesContact() {
			email, phone := g.Email(), g.Phone()
			if u.Email != nil {
				email = *u.Email
			}
			if u.Phone != nil {
				phone = *u.Phone
			}
			if err := s.checkEmailFree(ctx, tx, g, email); err != nil {
				return err
			}
			if err := g.UpdateContactInfo(email, phone); err != nil {
				return err
			}
		}
		if u.touchesPersonal() {
			first, last, dob := g.FirstName(), g.LastName(), g.DateOfBirth()
			if u.FirstName != nil {
				first = *u.FirstName
			}
			if u.LastName != nil {
				last = *u.LastName
			}
			if u.DateOfBirthSet {
				dob = u.DateOfBirth
			}
			if err := g.UpdatePersonalInfo(first, last, dob); err != nil {
				return err
			}
		}
		guest = g
		return persist(tx.Guests().Save(ctx, g), "guest")
	})
	if err != nil {
		return nil, err
	}
	return guest, nil
}

func (s *GuestService) checkEmailFree(ctx context.Context, tx repositories.Store, g *models.Guest, email string) error {
	if strings.EqualFold(strings.TrimSpace(email), g.Email()) {
		return nil
	}
	other, err := tx.Guests().FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check guest email: %w", err)
	case other.ID() != g.ID():
		return models.AlreadyExists("Guest", email)
	}
	return nil
}

func (s *GuestService) UpdateContactInfo(ctx context.Context, id, email, phone string) (*models.Guest, error) {
	return s.Update(ctx, id, GuestUpdate{Email: &email, Phone: &phone})
}

func (s *GuestService) UpdatePersonalInfo(ctx context.Context, id, firstName, lastName string, dateOfBirth *time.Time) (*models.Guest, error) {
	return s.Update(ctx, id, GuestUpdate{
		FirstName: &firstName, LastName: &lastName,
		DateOfBirth: dateOfBirth, DateOfBirthSet: true,
	})
}

// SetNote attaches a note, replacing the current one if present.
func (s *GuestService) SetNote(ctx context.Context, id, text string, level models.NoteLevel) (*models.Guest, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Note() != nil {
		err = g.UpdateNote(text, level)
	} else {
		err = g.AddNote(text, level)
	}
	if err != nil {
		return nil, err
	}
	if err := s.store.Guests().Save(ctx, g); err != nil {
		return nil, persist(err, "guest")
	}
	return g, nil
}

// Delete refuses while the guest belongs to an active reservation.
func (s *GuestService) Delete(ctx context.Context, id string) error {
	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Guests().FindByID(ctx, id); err != nil {
			return lookupErr(err, "Guest", id)
		}
		reservations, err := tx.Reservations().FindByGuest(ctx, id)
		if err != nil {
			return fmt.Errorf("load guest reservations: %w", err)
		}
		for _, r := range reservations {
			if r.IsActive() {
				return models.BusinessRule("guest %s has active reservation %s", id, r.Code())
			}
		}
		if err := tx.Guests().Delete(ctx, id); err != nil {
			return persist(err, "guest")
		}
		s.log.WithField("guest_id", id).Info("guest deleted")
		return nil
	})
}
