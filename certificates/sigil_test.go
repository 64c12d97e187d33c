package certificates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSigil(t *testing.T) {
	tests := []struct {
		name   string
		number int
		code   string
		want   string
	}{
		{"plain", 3, "SIC", "3SIC25032024"},
		{"trimmed code", 1, "  ANT ", "1ANT25032024"},
		{"blank code", 2, "   ", "2GEN25032024"},
		{"empty code", 12, "", "12GEN25032024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildSigil(tt.number, tt.code, day(2024, 3, 25)))
		})
	}
}

func TestCertificateFileName(t *testing.T) {
	assert.Equal(t, "Rossi_Mario_1SIC25032024.docx", CertificateFileName("Rossi", "Mario", "1SIC25032024"))
	assert.Equal(t, "DAngelo_GianLuca_1SIC25032024.docx", CertificateFileName("D'Angelo", "Gian Luca", "1SIC25032024"))
	assert.Equal(t, "Niccolò_Zoë_1SIC25032024.docx", CertificateFileName("Niccolò", "Zoë", "1SIC25032024"))
}

func TestFolderName(t *testing.T) {
	assert.Equal(t, "Acme_S_r_l_", folderName("Acme S.r.l.", "Privati"))
	assert.Equal(t, "Privati", folderName("  ", "Privati"))
}
