package workload

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

var ErrInvalidVNSizeList = errors.New("invalid VN size list")

// LoadVNSizes reads a whitespace separated list of positive VN sizes.
func LoadVNSizes(path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read VN sizes %s", path)
	}

	sizes, err := ParseVNSizes(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "VN sizes %s", path)
	}
	return sizes, nil
}

func ParseVNSizes(reader io.Reader) ([]int, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanWords)

	sizes := make([]int, 0)
	for scanner.Scan() {
		size, err := strconv.Atoi(scanner.Text())
		if err != nil || size <= 0 {
			return nil, errors.Wrapf(ErrInvalidVNSizeList, "entry %d: %q", len(sizes), scanner.Text())
		}
		sizes = append(sizes, size)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan VN sizes")
	}

	if len(sizes) == 0 {
		return nil, errors.Wrap(ErrInvalidVNSizeList, "no entries")
	}
	return sizes, nil
}
