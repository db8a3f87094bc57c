package lib

import (
	"fmt"
	"time"
)

const orderAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderNumber returns WZ-<yymmdd>-<6 alphanumerics>, e.g.
// WZ-261014-A7K2QZ. Uniqueness is enforced by the orders table.
func GenerateOrderNumber(now time.Time) (string, error) {
	random, err := randomCode(orderAlphabet, 6)
	if err != nil {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}
	return fmt.Sprintf("WZ-%s-%s", now.Format("060102"), random), nil
}
