package merchant

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule maps descriptions matching Pattern to a canonical merchant name.
type Rule struct {
	Pattern *regexp.Regexp
	Name    string
}

// NewRule compiles a case-insensitive, word-bounded alias pattern.
func NewRule(pattern, name string) (Rule, error) {
	if strings.TrimSpace(name) == "" {
		return Rule{}, fmt.Errorf("merchant rule %q: empty name", pattern)
	}
	re, err := regexp.Compile(`(?i)\b(?:` + pattern + `)\b`)
	if err != nil {
		return Rule{}, fmt.Errorf("merchant rule %q: %w", pattern, err)
	}
	return Rule{Pattern: re, Name: name}, nil
}

func mustRule(pattern, name string) Rule {
	r, err := NewRule(pattern, name)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRules returns the built-in alias table. Order matters: specific
// brands come before the broad category patterns that would mask them
// (CVS before "PHARMACY", Whole Foods before the grocery catch-all).
func DefaultRules() []Rule {
	return []Rule{
		mustRule(`UBER|UBERXL|UBER EATS`, "Uber"),
		mustRule(`NETFLIX|NETFLIX\.COM`, "Netflix"),
		mustRule(`DISNEY|DISNEYPLUS`, "Disney+"),
		mustRule(`AMAZON|AMZN`, "Amazon"),
		mustRule(`WAL-?MART`, "Walmart"),
		mustRule(`CVS|CVS/PHARMACY`, "CVS Pharmacy"),
		mustRule(`WHOLE ?FOODS`, "Whole Foods"),
		mustRule(`TARGET|TGT`, "Target"),
		mustRule(`COSTCO`, "Costco"),
		mustRule(`BEST ?BUY`, "Best Buy"),
		mustRule(`HOME ?DEPOT`, "Home Depot"),
		mustRule(`LOWE'?S`, "Lowes"),
		mustRule(`CHIPOTLE|CHIPOLTE`, "Chipotle"),
		mustRule(`STARBUCKS|SBUX`, "Starbucks"),
		mustRule(`MCDONALD'?S`, "McDonalds"),
		mustRule(`CHICK-?FIL-?A`, "Chick-fil-A"),
		mustRule(`PANERA`, "Panera"),
		mustRule(`TACO ?BELL`, "Taco Bell"),
		mustRule(`OPENAI|CHATGPT`, "OpenAI"),
		mustRule(`GOOGLE`, "Google"),
		mustRule(`APPLE|ITUNES|APP STORE`, "Apple"),
		mustRule(`MICROSOFT|XBOX`, "Microsoft"),
		mustRule(`SPOTIFY`, "Spotify"),
		mustRule(`HULU`, "Hulu"),
		mustRule(`MAX|HBO`, "Max/HBO"),
		mustRule(`YELLOW (?:CAB|TAXI)`, "Yellow Cab"),
		mustRule(`LYFT`, "Lyft"),
		mustRule(`AIRBNB|AIR BNB`, "Airbnb"),
		mustRule(`HOTEL|INN|RESORT`, "Hotel"),
		mustRule(`AIRLINES?|DELTA|UNITED|AMERICAN|SOUTHWEST`, "Airline"),
		mustRule(`SHELL|EXXON|CHEVRON|MOBIL`, "Gas Station"),
		mustRule(`WALGREENS|RITE AID|PHARMACY`, "Pharmacy"),
		mustRule(`KROGER|SAFEWAY|TRADER JOE'?S|SPROUTS`, "Grocery"),
	}
}

var categoryHints = []struct {
	category string
	keywords []string
}{
	{"transportation", []string{"uber", "lyft", "taxi", "yellow cab", "parking", "gas"}},
	{"lifestyle", []string{"netflix", "hulu", "disney", "spotify", "openai", "max/hbo"}},
	{"shopping", []string{"walmart", "amazon", "target", "costco", "best buy", "home depot", "lowes"}},
	{"food", []string{"restaurant", "cafe", "starbucks", "chipotle", "mcdonalds", "panera", "taco bell", "chick-fil-a", "grocery", "whole foods"}},
	{"health", []string{"cvs", "pharmacy", "walgreens", "hospital", "doctor", "surgicare", "clinic"}},
	{"travel", []string{"hotel", "airbnb", "airline", "flight"}},
}

// CategoryHint returns a coarse category for a canonical merchant name, or ""
// when the name gives no hint.
func CategoryHint(name string) string {
	lower := strings.ToLower(name)
	for _, h := range categoryHints {
		for _, kw := range h.keywords {
			if strings.Contains(lower, kw) {
				return h.category
			}
		}
	}
	return ""
}
