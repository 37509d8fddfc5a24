package business_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Agurato/cineverse/internal/business"
)

func TestFormatReleaseDate(t *testing.T) {
	assert.Equal(t, "20/10/1995 (IN)", business.FormatReleaseDate("1995-10-20"))
	assert.Equal(t, "5/3/1999 (IN)", business.FormatReleaseDate("1999-03-05"))
	assert.Equal(t, "", business.FormatReleaseDate(""))
	assert.Equal(t, "soon", business.FormatReleaseDate("soon"))
}

func TestFormatYear(t *testing.T) {
	assert.Equal(t, "1999", business.FormatYear("1999-03-30"))
	assert.Equal(t, "", business.FormatYear(""))
	assert.Equal(t, "", business.FormatYear("n/a-01"))
}

func TestFormatRuntime(t *testing.T) {
	assert.Equal(t, "3h 10m", business.FormatRuntime(190))
	assert.Equal(t, "2h 0m", business.FormatRuntime(120))
	assert.Equal(t, "45m", business.FormatRuntime(45))
	assert.Equal(t, "", business.FormatRuntime(0))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,000,000", business.FormatMoney(1000000))
	assert.Equal(t, "$63,000,000", business.FormatMoney(63000000))
	assert.Equal(t, "$999", business.FormatMoney(999))
	assert.Equal(t, "-", business.FormatMoney(0))
}

func TestContentScore(t *testing.T) {
	assert.Equal(t, "75%", business.ContentScore(7.5))
	assert.Equal(t, "82%", business.ContentScore(8.2))
	assert.Equal(t, "0%", business.ContentScore(0))
}

func TestFormatVote(t *testing.T) {
	assert.Equal(t, "8.2", business.FormatVote(8.21, 1))
	assert.Equal(t, "8.21", business.FormatVote(8.21, 2))
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Hindi", business.LanguageName("hi"))
	assert.Equal(t, "English", business.LanguageName("en"))
	assert.Equal(t, "", business.LanguageName(""))
}

func TestCountryName(t *testing.T) {
	assert.Equal(t, "India", business.CountryName("IN"))
	assert.Equal(t, "United States", business.CountryName("US"))
	assert.Equal(t, "XX", business.CountryName("XX"))
}
