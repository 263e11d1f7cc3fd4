package models

import "strings"

// Source is the channel a reservation was booked through.
type Source string

const (
	SourceDirect      Source = "DIRECT"
	SourceBooking     Source = "BOOKING"
	SourceHostelworld Source = "HOSTELWORLD"
	SourceAirbnb      Source = "AIRBNB"
	SourceExpedia     Source = "EXPEDIA"
	SourcePhone       Source = "PHONE"
	SourceEmail       Source = "EMAIL"
	SourceWalkIn      Source = "WALK_IN"
)

var sourceNames = map[Source]string{
	SourceDirect:      "Direct Booking",
	SourceBooking:     "Booking.com",
	SourceHostelworld: "Hostelworld",
	SourceAirbnb:      "Airbnb",
	SourceExpedia:     "Expedia",
	SourcePhone:       "Phone",
	SourceEmail:       "Email",
	SourceWalkIn:      "Walk-in",
}

func (s Source) Valid() bool {
	_, ok := sourceNames[s]
	return ok
}

func (s Source) DisplayName() string { return sourceNames[s] }

type DocumentType string

const (
	DocumentPassport      DocumentType = "PASSPORT"
	DocumentIdentityCard  DocumentType = "IDENTITY_CARD"
	DocumentNationalID    DocumentType = "NATIONAL_ID"
	DocumentCivilRegistry DocumentType = "CIVIL_REGISTRY"
	DocumentForeignID     DocumentType = "FOREIGN_ID"
)

func (d DocumentType) Valid() bool {
	switch d {
	case DocumentPassport, DocumentIdentityCard, DocumentNationalID, DocumentCivilRegistry, DocumentForeignID:
		return true
	}
	return false
}

type Nationality string

var nationalities = map[Nationality]struct{}{
	"COLOMBIA": {}, "UNITED_STATES": {}, "SPAIN": {}, "MEXICO": {}, "ARGENTINA": {},
	"BRAZIL": {}, "CHILE": {}, "PERU": {}, "VENEZUELA": {}, "ECUADOR": {},
	"CHINA": {}, "JAPAN": {}, "SOUTH_KOREA": {}, "GERMANY": {}, "FRANCE": {},
	"ITALY": {}, "UNITED_KINGDOM": {}, "CANADA": {}, "AUSTRALIA": {}, "OTHER": {},
}

func (n Nationality) Valid() bool {
	_, ok := nationalities[n]
	return ok
}

type Amenity string

const (
	AmenityBathroom        Amenity = "BATHROOM"
	AmenityTelevision      Amenity = "TELEVISION"
	AmenitySofa            Amenity = "SOFA"
	AmenityBalcony         Amenity = "BALCONY"
	AmenityAirConditioning Amenity = "AIR_CONDITIONING"
	AmenityWifi            Amenity = "WIFI"
	AmenityMiniBar         Amenity = "MINI_BAR"
	AmenitySafe            Amenity = "SAFE"
	AmenityDesk            Amenity = "DESK"
	AmenityWardrobe        Amenity = "WARDROBE"
)

func (a Amenity) Valid() bool {
	switch a {
	case AmenityBathroom, AmenityTelevision, AmenitySofa, AmenityBalcony, AmenityAirConditioning,
		AmenityWifi, AmenityMiniBar, AmenitySafe, AmenityDesk, AmenityWardrobe:
		return true
	}
	return false
}

type NoteLevel string

const (
	NoteInfo     NoteLevel = "INFO"
	NoteWarning  NoteLevel = "WARNING"
	NoteCritical NoteLevel = "CRITICAL"
)

func (l NoteLevel) Valid() bool {
	return l == NoteInfo || l == NoteWarning || l == NoteCritical
}

type RoomStatus string

const (
	RoomAvailable    RoomStatus = "AVAILABLE"
	RoomOccupied     RoomStatus = "OCCUPIED"
	RoomOutOfService RoomStatus = "OUT_OF_SERVICE"
)

func (s RoomStatus) Valid() bool {
	return s == RoomAvailable || s == RoomOccupied || s == RoomOutOfService
}

// normalizeEnum upper-cases and trims client-supplied enum values.
func normalizeEnum(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func ParseSource(s string) (Source, error) {
	v := Source(normalizeEnum(s))
	if !v.Valid() {
		return "", Validation("invalid source: %s", s)
	}
	return v, nil
}

func ParseDocumentType(s string) (DocumentType, error) {
	v := DocumentType(normalizeEnum(s))
	if !v.Valid() {
		return "", Validation("invalid document type: %s", s)
	}
	return v, nil
}

func ParseNationality(s string) (Nationality, error) {
	v := Nationality(normalizeEnum(s))
	if !v.Valid() {
		return "", Validation("invalid nationality: %s", s)
	}
	return v, nil
}

func ParseAmenity(s string) (Amenity, error) {
	v := Amenity(normalizeEnum(s))
	if !v.Valid() {
		return "", Validation("invalid amenity: %s", s)
	}
	return v, nil
}

func ParseNoteLevel(s string) (NoteLevel, error) {
	v := NoteLevel(normalizeEnum(s))
	if !v.Valid() {
		return "", Validation("invalid note level: %s", s)
	}
	return v, nil
}

func ParseRoomStatus(s string) (RoomStatus, error) {
	v := RoomStatus(normalizeEnum(s))
	if !v.Valid() {
		return "", Validation("invalid room status: %s", s)
	}
	return v, nil
}
