package domain

import "fmt"

// ReserveeType category of the party a reservation is made for
type ReserveeType string

const (
	ReserveeIndividual ReserveeType = "INDIVIDUAL"
	ReserveeBusiness   ReserveeType = "BUSINESS"
	ReserveeNonprofit  ReserveeType = "NONPROFIT"
)

// Reservee is a tagged variant over reservee categories. Each variant
// owns its required-field set and validates it behind this one
// interface; callers never branch on the type tag themselves.
type Reservee interface {
	Type() ReserveeType
	DisplayName() string
	ContactEmail() string
	ContactPhone() string
	Validate() error
}

// IndividualReservee a private person
type IndividualReservee struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func (r IndividualReservee) Type() ReserveeType { return ReserveeIndividual }

func (r IndividualReservee) DisplayName() string {
	return r.FirstName + " " + r.LastName
}

func (r IndividualReservee) ContactEmail() string { return r.Email }

func (r IndividualReservee) ContactPhone() string { return r.Phone }

func (r IndividualReservee) Validate() error {
	if r.FirstName == "" || r.LastName == "" {
		return fmt.Errorf("%w: individual reservee requires first and last name", ErrInvalidReservee)
	}
	if r.Email == "" {
		return fmt.Errorf("%w: individual reservee requires an email", ErrInvalidReservee)
	}
	return nil
}

// BusinessReservee a company booking on its own behalf
type BusinessReservee struct {
	OrganisationName string
	BusinessID       string
	ContactName      string
	Email            string
	Phone            string
}

func (r BusinessReservee) Type() ReserveeType { return ReserveeBusiness }

func (r BusinessReservee) DisplayName() string { return r.OrganisationName }

func (r BusinessReservee) ContactEmail() string { return r.Email }

func (r BusinessReservee) ContactPhone() string { return r.Phone }

func (r BusinessReservee) Validate() error {
	if r.OrganisationName == "" {
		return fmt.Errorf("%w: business reservee requires an organisation name", ErrInvalidReservee)
	}
	if r.BusinessID == "" {
		return fmt.Errorf("%w: business reservee requires a business id", ErrInvalidReservee)
	}
	if r.ContactName == "" {
		return fmt.Errorf("%w: business reservee requires a contact name", ErrInvalidReservee)
	}
	return nil
}

// NonprofitReservee a registered association; no business id required
type NonprofitReservee struct {
	OrganisationName string
	ContactName      string
	Email            string
	Phone            string
}

func (r NonprofitReservee) Type() ReserveeType { return ReserveeNonprofit }

func (r NonprofitReservee) DisplayName() string { return r.OrganisationName }

func (r NonprofitReservee) ContactEmail() string { return r.Email }

func (r NonprofitReservee) ContactPhone() string { return r.Phone }

func (r NonprofitReservee) Validate() error {
	if r.OrganisationName == "" {
		return fmt.Errorf("%w: nonprofit reservee requires an organisation name", ErrInvalidReservee)
	}
	if r.ContactName == "" {
		return fmt.Errorf("%w: nonprofit reservee requires a contact name", ErrInvalidReservee)
	}
	return nil
}
