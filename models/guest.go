package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Note is a classified free-text remark on a guest. Replaced wholesale on change.
type Note struct {
	ID    string
	Text  string
	Level NoteLevel
}

func NewNote(text string, level NoteLevel) (Note, error) {
	if strings.TrimSpace(text) == "" {
		return Note{}, Validation("note text is required")
	}
	if !level.Valid() {
		return Note{}, Validation("invalid note level: %s", level)
	}
	return Note{ID: uuid.NewString(), Text: text, Level: level}, nil
}

// Guest aggregate root.
type Guest struct {
	id             string
	firstName      string
	lastName       string
	email          string
	phone          string
	dateOfBirth    *time.Time
	nationality    Nationality
	documentNumber string
	documentType   DocumentType
	note           *Note
	createdAt      time.Time
}

type NewGuestParams struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	DateOfBirth    *time.Time
	Nationality    Nationality
	DocumentNumber string
	DocumentType   DocumentType
}

// NewGuest validates p and creates a guest with a fresh identity.
func NewGuest(p NewGuestParams) (*Guest, error) {
	if strings.TrimSpace(p.FirstName) == "" {
		return nil, Validation("first name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return nil, Validation("last name is required")
	}
	if err := validateEmail(p.Email); err != nil {
		return nil, err
	}
	if !p.Nationality.Valid() {
		return nil, Validation("invalid nationality: %s", p.Nationality)
	}
	if strings.TrimSpace(p.DocumentNumber) == "" {
		return nil, Validation("document number is required")
	}
	if !p.DocumentType.Valid() {
		return nil, Validation("invalid document type: %s", p.DocumentType)
	}
	return &Guest{
		id:             uuid.NewString(),
		firstName:      strings.TrimSpace(p.FirstName),
		lastName:       strings.TrimSpace(p.LastName),
		email:          strings.TrimSpace(p.Email),
		phone:          strings.TrimSpace(p.Phone),
		dateOfBirth:    dateOnlyPtr(p.DateOfBirth),
		nationality:    p.Nationality,
		documentNumber: strings.TrimSpace(p.DocumentNumber),
		documentType:   p.DocumentType,
		createdAt:      Today(),
	}, nil
}

type GuestSnapshot struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	DateOfBirth    *time.Time
	Nationality    Nationality
	DocumentNumber string
	DocumentType   DocumentType
	Note           *Note
	CreatedAt      time.Time
}

// HydrateGuest rebuilds a guest from trusted storage without re-validation.
func HydrateGuest(s GuestSnapshot) *Guest {
	return &Guest{
		id:             s.ID,
		firstName:      s.FirstName,
		lastName:       s.LastName,
		email:          s.Email,
		phone:          s.Phone,
		dateOfBirth:    s.DateOfBirth,
		nationality:    s.Nationality,
		documentNumber: s.DocumentNumber,
		documentType:   s.DocumentType,
		note:           s.Note,
		createdAt:      s.CreatedAt,
	}
}

func (g *Guest) Snapshot() GuestSnapshot {
	return GuestSnapshot{
		ID:             g.id,
		FirstName:      g.firstName,
		LastName:       g.lastName,
		Email:          g.email,
		Phone:          g.phone,
		DateOfBirth:    g.dateOfBirth,
		Nationality:    g.nationality,
		DocumentNumber: g.documentNumber,
		DocumentType:   g.documentType,
		Note:           g.note,
		CreatedAt:      g.createdAt,
	}
}

func (g *Guest) UpdateContactInfo(email, phone string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	g.email = strings.TrimSpace(email)
	g.phone = strings.TrimSpace(phone)
	return nil
}

func (g *Guest) UpdatePersonalInfo(firstName, lastName string, dateOfBirth *time.Time) error {
	if strings.TrimSpace(firstName) == "" {
		return Validation("first name is required")
	}
	if strings.TrimSpace(lastName) == "" {
		return Validation("last name is required")
	}
	g.firstName = strings.TrimSpace(firstName)
	g.lastName = strings.TrimSpace(lastName)
	g.dateOfBirth = dateOnlyPtr(dateOfBirth)
	return nil
}

// AddNote attaches a note, replacing any existing one.
func (g *Guest) AddNote(text string, level NoteLevel) error {
	n, err := NewNote(text, level)
	if err != nil {
		return err
	}
	g.note = &n
	return nil
}

func (g *Guest) UpdateNote(text string, level NoteLevel) error {
	if g.note == nil {
		return IllegalState("cannot update note: guest %s has no note", g.id)
	}
	return g.AddNote(text, level)
}

func (g *Guest) ID() string                 { return g.id }
func (g *Guest) FirstName() string          { return g.firstName }
func (g *Guest) LastName() string           { return g.lastName }
func (g *Guest) FullName() string           { return g.firstName + " " + g.lastName }
func (g *Guest) Email() string              { return g.email }
func (g *Guest) Phone() string              { return g.phone }
func (g *Guest) DateOfBirth() *time.Time    { return g.dateOfBirth }
func (g *Guest) Nationality() Nationality   { return g.nationality }
func (g *Guest) DocumentNumber() string     { return g.documentNumber }
func (g *Guest) DocumentType() DocumentType { return g.documentType }
func (g *Guest) Note() *Note                { return g.note }
func (g *Guest) CreatedAt() time.Time       { return g.createdAt }

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return Validation("email is required")
	}
	if !emailPattern.MatchString(email) {
		return Validation("invalid email format: %s", email)
	}
	return nil
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := DateOnly(*t)
	return &d
}
