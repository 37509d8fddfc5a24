package business

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pariz/gountries"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
)

var (
	countries     = gountries.New()
	moneyPrinter  = message.NewPrinter(language.English)
	languageNamer = display.English.Languages()
)

// FormatReleaseDate turns "1995-10-20" into "20/10/1995 (IN)". Unparsable dates are returned as is.
func FormatReleaseDate(date string) string {
	released, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return released.Format("2/1/2006") + " (IN)"
}

// FormatYear returns the year of a release date, or an empty string
func FormatYear(date string) string {
	if len(date) < 4 {
		return ""
	}
	if _, err := strconv.Atoi(date[:4]); err != nil {
		return ""
	}
	return date[:4]
}

// FormatRuntime turns a number of minutes into "3h 10m"
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// FormatMoney turns 1000000 into "$1,000,000". Unknown amounts (0) render as "-".
func FormatMoney(amount int64) string {
	if amount <= 0 {
		return "-"
	}
	return moneyPrinter.Sprintf("$%d", amount)
}

// ContentScore turns a vote average out of 10 into a percentage
func ContentScore(voteAverage float64) string {
	return fmt.Sprintf("%.0f%%", voteAverage*10)
}

// FormatVote renders a vote average with the given number of decimals
func FormatVote(voteAverage float64, decimals int) string {
	return strconv.FormatFloat(voteAverage, 'f', decimals, 64)
}

// LanguageName turns an ISO 639-1 code into its English name
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := languageNamer.Name(tag); name != "" {
		return name
	}
	return code
}

// CountryName turns an ISO 3166-1 alpha-2 code into the country common name
func CountryName(code string) string {
	country, err := countries.FindCountryByAlpha(code)
	if err != nil {
		return code
	}
	return country.Name.Common
}
