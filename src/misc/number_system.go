package misc

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrNotBinary = errors.New("not a binary string")

// BinaryToHex converts a bit string, MSB first, into lowercase hex. The
// length must be a multiple of 4.
func BinaryToHex(binary string) (string, error) {
	if len(binary)%4 != 0 {
		return "", errors.Wrapf(ErrNotBinary, "%d bits is not a whole number of nibbles", len(binary))
	}

	var builder strings.Builder
	for i := 0; i < len(binary); i += 4 {
		nibble, err := strconv.ParseUint(binary[i:i+4], 2, 8)
		if err != nil {
			return "", errors.Wrapf(ErrNotBinary, "%q", binary[i:i+4])
		}
		builder.WriteByte("0123456789abcdef"[nibble])
	}
	return builder.String(), nil
}

// IntToHex renders a non-negative value as exactly width hex digits. Higher
// digits that do not fit are dropped.
func IntToHex(value int, width int) string {
	digits := strconv.FormatUint(uint64(value), 16)
	if len(digits) >= width {
		return digits[len(digits)-width:]
	}
	return strings.Repeat("0", width-len(digits)) + digits
}
