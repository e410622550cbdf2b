package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Address is the billing address captured on an order.
// It is stored as a JSON document next to the order row.
type Address struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// NewAddress trims and validates a billing address
func NewAddress(a Address) (Address, error) {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.Phone = strings.TrimSpace(a.Phone)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Country = strings.TrimSpace(a.Country)

	required := []struct {
		name  string
		value string
	}{
		{"full_name", a.FullName},
		{"email", a.Email},
		{"street", a.Street},
		{"city", a.City},
		{"postal_code", a.PostalCode},
		{"country", a.Country},
	}
	for _, f := range required {
		if f.value == "" {
			return Address{}, shared.NewDomainError("INVALID_ADDRESS", fmt.Sprintf("Billing address %s is required", f.name))
		}
		if len(f.value) > 200 {
			return Address{}, shared.NewDomainError("INVALID_ADDRESS", fmt.Sprintf("Billing address %s cannot exceed 200 characters", f.name))
		}
	}
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return Address{}, shared.NewDomainError("INVALID_ADDRESS", "Billing address email is invalid")
	}
	return a, nil
}

// IsZero reports whether no field is set
func (a Address) IsZero() bool {
	return a == Address{}
}

// Value implements driver.Valuer
func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (a *Address) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Address{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("unsupported address column type")
	}
}
