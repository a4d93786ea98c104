package domain

import "fmt"

// Card is an immutable card value. Request mappers read it to format wire
// fields and never retain it beyond the call.
type Card struct {
	Number      string
	ExpireMonth int
	ExpireYear  int // four digits
	CVV         string
	HolderName  string
	Brand       CardBrand
}

// ExpiryMonth returns the zero-padded month, e.g. "03".
func (c *Card) ExpiryMonth() string {
	return fmt.Sprintf("%02d", c.ExpireMonth)
}

// ExpiryYearShort returns the two-digit year, e.g. "26".
func (c *Card) ExpiryYearShort() string {
	return fmt.Sprintf("%02d", c.ExpireYear%100)
}

// ExpiryMMYY formats the expiration as "MM/YY".
func (c *Card) ExpiryMMYY() string {
	return c.ExpiryMonth() + "/" + c.ExpiryYearShort()
}

// ExpiryYYMM formats the expiration as "YYMM".
func (c *Card) ExpiryYYMM() string {
	return c.ExpiryYearShort() + c.ExpiryMonth()
}

// ExpiryYYYYMM formats the expiration as "YYYYMM".
func (c *Card) ExpiryYYYYMM() string {
	return fmt.Sprintf("%04d%02d", c.ExpireYear, c.ExpireMonth)
}
