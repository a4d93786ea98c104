package domain

// Account holds bank credentials and routing info for one merchant. It is
// owned by the caller for the duration of a transaction and never mutated by
// the mapping layer.
type Account struct {
	Bank          string
	ClientID      string
	Username      string
	Password      string
	TerminalID    string
	MerchantType  string
	SubMerchantID string

	// Model is the security model the account was provisioned for.
	Model SecureModel

	// Lang is the default gateway UI language; an order-level language
	// overrides it.
	Lang string
}

// IsSubBranch reports whether the account routes through a sub-merchant.
func (a *Account) IsSubBranch() bool {
	return a.SubMerchantID != ""
}
