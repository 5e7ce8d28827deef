package domain

import (
	"database/sql"
	"errors"
	"log"
	"math"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gobuffalo/envy"
	"github.com/gofrs/uuid"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Context keys
const (
	ContextKeyCurrentPartner = "current_partner"
	ContextKeyExtras         = "extras"
	ContextKeyTx             = "tx"

	EventPayloadID = "id"

	TypeQuote   = "quotes"
	TypePolicy  = "policies"
	TypeCarrier = "carriers"
	TypePartner = "partners"
)

const (
	CurrencyFactor = 100
	DateFormat     = "2006-01-02"
	MonthFormat    = "2006-01"
)

// Event Kinds
const (
	EventApiQuoteCreated    = "api:quote:created"
	EventApiPolicyBound     = "api:policy:bound"
	EventApiPolicyCancelled = "api:policy:cancelled"
)

// Env holds the values of environment variables
var Env struct {
	GoEnv      string `ignored:"true"`
	ApiBaseURL string `default:"http://localhost:3000" split_words:"true"`
	AppName    string `default:"Embed" split_words:"true"`
	ServerPort int    `default:"3000" split_words:"true"`

	SessionSecret string `default:"not-so-secret" split_words:"true"`
	SentryDSN     string `default:"" split_words:"true"`
	UIURL         string `default:"http://missing.ui.url"`

	AwsRegion          string `split_words:"true"`
	AwsS3Endpoint      string `split_words:"true"`
	AwsS3DisableSSL    bool   `split_words:"true"`
	AwsS3Bucket        string `split_words:"true"`
	AwsAccessKeyID     string `split_words:"true"`
	AwsSecretAccessKey string `split_words:"true"`

	RateCurvesFile      string `default:"config/rates.yaml" split_words:"true"`
	ComplianceRulesFile string `default:"config/compliance.yaml" split_words:"true"`

	QuoteLifetimeDays int `default:"30" split_words:"true"`
	MaxScenarioCount  int `default:"200000" split_words:"true"`
	SimulationWorkers int `default:"0" split_words:"true"` // 0 means use GOMAXPROCS
}

func init() {
	readEnv()
}

// readEnv loads environment data into `Env`
func readEnv() {
	if err := envconfig.Process("", &Env); err != nil {
		log.Fatal(errors.New("error loading env vars: " + err.Error()))
	}

	// Doing this separately to avoid needing two environment variables for the same thing
	Env.GoEnv = envy.Get("GO_ENV", EnvDevelopment)
}

func IsProduction() bool {
	return Env.GoEnv == EnvProduction
}

// GetUUID creates a new, unique version 4 (random) UUID and returns it.
// Errors are ignored.
func GetUUID() uuid.UUID {
	id, _ := uuid.NewV4()
	return id
}

// RoundHalfUp rounds a monetary value in fractional cents to whole cents,
// with halves always rounding up. The value is first quantized to a hundredth
// of a cent so that binary floating point error cannot move a true half
// across the rounding boundary. This is the one externally observable
// rounding in the pricing chain.
func RoundHalfUp(v float64) int {
	quantized := math.Round(v*10000) / 10000
	return int(math.Floor(quantized + 0.5))
}

// GetBearerTokenFromRequest obtains the token from an Authorization header beginning
// with "Bearer". If not found, an empty string is returned.
func GetBearerTokenFromRequest(r *http.Request) string {
	authorizationHeader := r.Header.Get("Authorization")
	if authorizationHeader == "" {
		return ""
	}

	re := regexp.MustCompile(`^(?i)Bearer (.*)$`)
	matches := re.FindSubmatch([]byte(authorizationHeader))
	if len(matches) < 2 {
		return ""
	}

	return string(matches[1])
}

// IsOtherThanNoRows returns false if the error is nil or is just a no-rows error
func IsOtherThanNoRows(err error) bool {
	if err == nil {
		return false
	}

	if strings.Contains(err.Error(), sql.ErrNoRows.Error()) {
		return false
	}

	return true
}

// IsStringInSlice iterates over a slice of strings, looking for the given
// string. If found, true is returned. Otherwise, false is returned.
func IsStringInSlice(needle string, haystack []string) bool {
	for _, hs := range haystack {
		if needle == hs {
			return true
		}
	}

	return false
}

func MergeExtras(extras []map[string]interface{}) map[string]interface{} {
	allExtras := map[string]interface{}{}

	if len(extras) == 1 {
		return extras[0]
	}

	for _, e := range extras {
		for k, v := range e {
			allExtras[k] = v
		}
	}

	return allExtras
}

// ParseMonth parses a year-month value in "YYYY-MM" form and returns the
// first instant of that month in UTC.
func ParseMonth(s string) (time.Time, error) {
	return time.Parse(MonthFormat, s)
}

func BeginningOfMonth(date time.Time) time.Time {
	return date.AddDate(0, 0, -date.Day()+1)
}

func EndOfMonth(date time.Time) time.Time {
	return date.AddDate(0, 1, -date.Day())
}
