package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finpays/posbridge/domain"
)

func TestCardExpiryFormats(t *testing.T) {
	card := &domain.Card{
		Number:      "5555444433332222",
		ExpireMonth: 3,
		ExpireYear:  2026,
		CVV:         "122",
		HolderName:  "ahmet",
		Brand:       domain.BrandVisa,
	}

	assert.Equal(t, "03/26", card.ExpiryMMYY())
	assert.Equal(t, "2603", card.ExpiryYYMM())
	assert.Equal(t, "202603", card.ExpiryYYYYMM())
}

func TestIsErrorCode(t *testing.T) {
	err := domain.NewNotImplementedError("history query")
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeNotImplemented))
	assert.False(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredInput))
	assert.False(t, domain.IsErrorCode(nil, domain.ErrCodeNotImplemented))
}
