package models

import (
	"bytes"
	"fmt"
	"strconv"
)

// Pagination describes list paging metadata in responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// FlexBool tolerates upstream booleans encoded as true/false, 0/1 or "0"/"1".
// The content API is inconsistent about is_video and checked flags.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	switch raw {
	case "true", "1":
		*b = true
		return nil
	case "false", "0", "null", "":
		*b = false
		return nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		*b = n != 0
		return nil
	}
	return fmt.Errorf("cannot parse %q as boolean flag", raw)
}

// Bool returns the plain boolean value.
func (b FlexBool) Bool() bool {
	return bool(b)
}
