package domain

// Response is the canonical result of any gateway operation. It is always
// fully shaped: fields a gateway did not report stay nil, never absent.
// Built fresh per call and never cached.
type Response struct {
	OrderID       *string
	RemoteOrderID *string
	Currency      *Currency
	Amount        *float64
	Installment   *int

	TransID        *string
	AuthCode       *string
	RefRetNum      *string
	GroupID        *string
	ProcReturnCode *string

	Status       Status
	StatusDetail *string
	ErrorCode    *string
	ErrorMessage *string

	// 3-D Secure fields, populated only by the 3-D decoding paths.
	MdStatus            *string
	TransactionSecurity *string
	MaskedNumber        *string
	MdErrorMessage      *string
	ECI                 *string
	CAVV                *string

	// Raw preserves the gateway reply verbatim for diagnostics.
	Raw   map[string]any
	Raw3D map[string]any
}

// ThreeDAuthResult carries the authentication proofs a 3-D Secure redirect
// returned. They are forwarded into the final payment request.
type ThreeDAuthResult struct {
	ECI  string
	CAVV string

	// TransactionID is the MPI transaction id (VerifyEnrollmentRequestId on
	// PayFlex, xid on EstPos).
	TransactionID string

	// MD is the merchant data blob EstPos requires back.
	MD string
}

// EnrollmentResult is the PaReq/TermUrl/MD/ACSUrl bundle a PayFlex-style
// enrollment check returns; form data repackages it without local hashing.
type EnrollmentResult struct {
	PaReq   string
	TermURL string
	MD      string
	ACSURL  string
}
