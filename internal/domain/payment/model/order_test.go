package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferCodeFor(t *testing.T) {
	code := TransferCodeFor("3f2a9c1e-7b4d-4e8a-9c2b-1d5e6f7a8b9c")
	assert.Equal(t, "CC3F2A9C1E7B4D4E8A", code)
}

func TestExtractTransferCode(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"CC3F2A9C1E7B4D4E8A", "CC3F2A9C1E7B4D4E8A"},
		{"MBVCB.123 cc3f2a9c1e7b4d4e8a chuyen tien", "CC3F2A9C1E7B4D4E8A"},
		{"CC3F2A9C 1E7B4D4E8A", "CC3F2A9C1E7B4D4E8A"},
		{"thanh toan don hang", ""},
		{"CC3F2A", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractTransferCode(tt.content), tt.content)
	}
}
