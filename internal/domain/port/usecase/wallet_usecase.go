package usecase

import "context"

// Wallet callback commands
const (
	WalletCmdGetBalance = "getBalance"
	WalletCmdWriteBet   = "writeBet"
)

// Wallet callback status values
const (
	WalletStatusSuccess = "success"
	WalletStatusFail    = "fail"
)

// Wallet callback error codes
const (
	WalletErrBadRequest  = "fail_request"
	WalletErrAuth        = "fail_auth"
	WalletErrUser        = "fail_user"
	WalletErrBalance     = "fail_balance"
	WalletErrSession     = "fail_session"
	WalletErrInternal    = "fail_internal"
	WalletErrRateLimited = "fail_rate_limit"
	WalletErrUnknownCmd  = "fail_cmd"
)

// WalletResponse is always delivered with HTTP 200
type WalletResponse struct {
	Status   string `json:"status"`
	Error    string `json:"error"`
	Login    string `json:"login,omitempty"`
	Balance  string `json:"balance,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// WalletUseCase answers provider wallet callbacks. Fields holds every submitted
// field as a string, including the credentials.
type WalletUseCase interface {
	Handle(ctx context.Context, fields map[string]string) WalletResponse
}
