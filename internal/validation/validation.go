package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Error is a single-field validation failure. Single-field validators fail
// fast with one *Error; composite validators collect them into Violations.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

func fail(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Violations collects every field error of a composite validation.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func (v Violations) Add(err error) {
	if err == nil {
		return
	}
	if fe, ok := err.(*Error); ok {
		v[fe.Field] = fe.Message
		return
	}
	v["_"] = err.Error()
}

// Error joins all collected messages, one per field, in field order.
func (v Violations) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(v))
	for _, f := range fields {
		msgs = append(msgs, v[f])
	}
	return strings.Join(msgs, "; ")
}

// Required validates that a mandatory field is not blank and trims it.
func Required(value, field string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fail(field, "%s est obligatoire", field)
	}
	return trimmed, nil
}

// StringLength validates the trimmed length of a string. Zero bounds are ignored.
func StringLength(value string, minLen, maxLen int, field string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if minLen > 0 && len([]rune(trimmed)) < minLen {
		return "", fail(field, "%s doit contenir au moins %d caractères", field, minLen)
	}
	if maxLen > 0 && len([]rune(trimmed)) > maxLen {
		return "", fail(field, "%s ne peut pas dépasser %d caractères", field, maxLen)
	}
	return trimmed, nil
}

// PositiveNumber validates a float; allowZero switches between >= 0 and > 0.
func PositiveNumber(value float64, field string, allowZero bool) (float64, error) {
	if allowZero && value < 0 {
		return 0, fail(field, "%s ne peut pas être négatif", field)
	}
	if !allowZero && value <= 0 {
		return 0, fail(field, "%s doit être positif", field)
	}
	return value, nil
}

// PositiveInteger validates an int; allowZero switches between >= 0 and > 0.
func PositiveInteger(value int, field string, allowZero bool) (int, error) {
	if allowZero && value < 0 {
		return 0, fail(field, "%s ne peut pas être négatif", field)
	}
	if !allowZero && value <= 0 {
		return 0, fail(field, "%s doit être positif", field)
	}
	return value, nil
}

var (
	phoneCleanRe = regexp.MustCompile(`[\s\-()]`)
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\+261[0-9]{9}$`),
		regexp.MustCompile(`^0[0-9]{9}$`),
		regexp.MustCompile(`^[0-9]{9}$`),
		regexp.MustCompile(`^261[0-9]{9}$`),
	}
	emailRe         = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	forbiddenCharRe = regexp.MustCompile(`[<>:"/\\|?*]`)
	usernameRe      = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	letterRe        = regexp.MustCompile(`[a-zA-ZàâäéèêëïîôöùûüÿçÀÂÄÉÈÊËÏÎÔÖÙÛÜŸÇ]`)
	multiSpaceRe    = regexp.MustCompile(`\s+`)
)

// Phone validates a Madagascar-style phone number and returns it stripped of
// spaces, dashes and parentheses. Empty input is accepted unless required.
func Phone(phone string, required bool) (string, error) {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		if required {
			return "", fail("telephone", "Le numéro de téléphone est obligatoire")
		}
		return "", nil
	}
	clean := phoneCleanRe.ReplaceAllString(trimmed, "")
	for _, p := range phonePatterns {
		if p.MatchString(clean) {
			return clean, nil
		}
	}
	return "", fail("telephone", "Format de téléphone invalide (ex: +261 34 12 345 67)")
}

// Email validates an email address and returns it trimmed and lower-cased.
// Empty input is accepted unless required.
func Email(email string, required bool) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		if required {
			return "", fail("email", "L'adresse email est obligatoire")
		}
		return "", nil
	}
	if !emailRe.MatchString(trimmed) {
		return "", fail("email", "Format d'email invalide")
	}
	return strings.ToLower(trimmed), nil
}

// PriceMargin enforces selling_price > purchase_price.
func PriceMargin(purchase, selling float64) error {
	if selling <= purchase {
		return fail("selling_price", "Le prix de vente doit être supérieur au prix d'achat")
	}
	return nil
}

// StockQuantity validates an outbound quantity against the available stock.
func StockQuantity(available, requested int) error {
	if requested <= 0 {
		return fail("quantity", "La quantité doit être positive")
	}
	if requested > available {
		return fail("quantity", "Stock insuffisant. Disponible: %d, Demandé: %d", available, requested)
	}
	return nil
}

// Username validates a login name (3-50 chars, letters/digits/underscore)
// and normalizes it to lower case.
func Username(username string) (string, error) {
	name, err := Required(username, "Nom d'utilisateur")
	if err != nil {
		return "", err
	}
	name, err = StringLength(name, 3, 50, "Nom d'utilisateur")
	if err != nil {
		return "", err
	}
	if !usernameRe.MatchString(name) {
		return "", fail("username", "Le nom d'utilisateur ne peut contenir que des lettres, chiffres et underscore")
	}
	return strings.ToLower(name), nil
}

// Password validates a password against the minimum length requirement.
func Password(password string) (string, error) {
	if password == "" {
		return "", fail("password", "Mot de passe est obligatoire")
	}
	if len(password) < 4 {
		return "", fail("password", "Le mot de passe doit contenir au moins 4 caractères")
	}
	return password, nil
}

// CategoryName validates a category name (2-100 chars, no filesystem-special characters).
func CategoryName(name string) (string, error) {
	n, err := Required(name, "Nom de la catégorie")
	if err != nil {
		return "", err
	}
	n, err = StringLength(n, 2, 100, "Nom de la catégorie")
	if err != nil {
		return "", err
	}
	if forbiddenCharRe.MatchString(n) {
		return "", fail("name", "Le nom de catégorie contient des caractères interdits")
	}
	return n, nil
}

// ProductName validates a product name (2-200 chars, no filesystem-special characters).
func ProductName(name string) (string, error) {
	n, err := Required(name, "Nom du produit")
	if err != nil {
		return "", err
	}
	n, err = StringLength(n, 2, 200, "Nom du produit")
	if err != nil {
		return "", err
	}
	if forbiddenCharRe.MatchString(n) {
		return "", fail("name", "Le nom du produit contient des caractères interdits")
	}
	return n, nil
}

// VendeurName validates a vendeur name (2-100 chars, at least one letter,
// accented letters included).
func VendeurName(name string) (string, error) {
	n, err := Required(name, "Nom du vendeur")
	if err != nil {
		return "", err
	}
	n, err = StringLength(n, 2, 100, "Nom du vendeur")
	if err != nil {
		return "", err
	}
	if !letterRe.MatchString(n) {
		return "", fail("name", "Le nom doit contenir au moins une lettre")
	}
	return n, nil
}

// DateRange validates an optional YYYY-MM-DD range; start must not be after end.
func DateRange(start, end string) error {
	if start == "" || end == "" {
		return nil
	}
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return fail("start_date", "Format de date invalide (YYYY-MM-DD)")
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return fail("end_date", "Format de date invalide (YYYY-MM-DD)")
	}
	if s.After(e) {
		return fail("start_date", "La date de début doit être antérieure à la date de fin")
	}
	return nil
}

// SanitizeFilename strips forbidden filesystem characters, collapses
// whitespace to underscores and caps the length, preserving the extension
// when truncating.
func SanitizeFilename(filename string) string {
	if strings.TrimSpace(filename) == "" {
		return "fichier_sans_nom"
	}
	clean := forbiddenCharRe.ReplaceAllString(filename, "_")
	clean = strings.TrimSpace(clean)
	clean = multiSpaceRe.ReplaceAllString(clean, "_")
	if len(clean) > 200 {
		ext := ""
		base := clean
		if idx := strings.LastIndex(clean, "."); idx >= 0 {
			base, ext = clean[:idx], clean[idx+1:]
		}
		if len(base) > 195 {
			base = base[:195]
		}
		clean = base
		if ext != "" {
			clean += "." + ext
		}
	}
	if clean == "" {
		return "fichier_sans_nom"
	}
	return clean
}
