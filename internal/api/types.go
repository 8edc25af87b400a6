package api

import (
	"time"

	"github.com/mgy583/account-book/internal/model"
)

// Credential is the bearer token of a logged-in user. The zero value means
// "not logged in" and requests go out without an Authorization header.
type Credential struct {
	Token    string
	Username string
}

// IsZero reports whether the credential carries no token.
func (c Credential) IsZero() bool {
	return c.Token == ""
}

// FetchResult is the normalized outcome of one order query.
type FetchResult struct {
	Orders []model.Order
	// ServerTotal is the count the server reported. Pagination never uses it;
	// the table total is always the locally filtered length.
	ServerTotal int
	FetchedAt   time.Time
}

// NewOrder is the body of POST /order.
type NewOrder struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Date     string  `json:"date"` // YYYY-MM-DD
	Remark   string  `json:"remark,omitempty"`
}

// NewAccount is the body of POST /accounts.
type NewAccount struct {
	Name        string  `json:"name"`
	AccountType string  `json:"account_type"`
	Balance     float64 `json:"balance"`
	Currency    string  `json:"currency"`
	Remark      string  `json:"remark,omitempty"`
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// errorBody covers the error shapes the server uses: {"message": ...} from
// the account routes and {"token": "<reason>"} from the auth routes.
type errorBody struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
