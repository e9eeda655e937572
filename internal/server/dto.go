package server

import (
	"strconv"
	"strings"

	"github.com/mkhare/splitledger/internal/errdefs"
	"github.com/mkhare/splitledger/internal/models"
	"github.com/mkhare/splitledger/internal/money"
)

// Request DTOs are statically typed with one explicit validate method per
// endpoint. Required numeric fields are pointers so "absent" and "zero" stay
// distinguishable after decoding.

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r *createUserRequest) validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errdefs.Validation("User's name is required")
	}
	if len(name) < 2 || len(name) > 50 {
		return errdefs.Validation("name must be between 2 and 50 characters")
	}
	if r.Email == "" {
		return errdefs.Validation("email is a required field")
	}
	if !strings.Contains(r.Email, "@") {
		return errdefs.Validation("email must be a valid email")
	}
	return nil
}

type createGroupRequest struct {
	Name  string  `json:"name"`
	Users []int64 `json:"users"`
}

func (r *createGroupRequest) validate() error {
	if r.Name == "" {
		return errdefs.Validation("Group name is required")
	}
	if r.Users == nil {
		return errdefs.Validation("users is a required field")
	}
	return nil
}

type createTransactionRequest struct {
	GroupID     *int64             `json:"groupId"`
	Description string             `json:"description"`
	PayerID     *int64             `json:"payerId"`
	Total       *float64           `json:"total"`
	SplitType   string             `json:"splitType"`
	PayeeMap    map[string]float64 `json:"payeeMap"`
}

func (r *createTransactionRequest) validate() error {
	if r.GroupID == nil {
		return errdefs.Validation("Group ID is required")
	}
	if r.PayerID == nil {
		return errdefs.Validation("You need to specify payer")
	}
	if r.Total == nil {
		return errdefs.Validation("You need to specify total value")
	}
	if r.SplitType == "" {
		return errdefs.Validation("You need to specify split type")
	}
	if !models.SplitType(r.SplitType).Valid() {
		return errdefs.Validation("splitType must be one of the following values: EXACT, EQUAL")
	}
	return nil
}

// exactAmounts converts the JSON payee map (ids arrive as object keys, so
// strings) into typed ids and subunit amounts.
func (r *createTransactionRequest) exactAmounts() (map[int64]money.Money, error) {
	if r.PayeeMap == nil {
		return nil, nil
	}
	amounts := make(map[int64]money.Money, len(r.PayeeMap))
	for key, value := range r.PayeeMap {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, errdefs.Validation("payeeMap keys must be numeric user ids")
		}
		amounts[id] = money.FromFloat(value)
	}
	return amounts, nil
}
