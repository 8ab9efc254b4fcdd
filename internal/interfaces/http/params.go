package http

import (
	"regexp"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ledger/internal/domain"
)

var positiveInt = regexp.MustCompile(`^[1-9][0-9]*$`)

// parsePositiveID valida que raw sea un entero positivo (sin signo, sin decimales).
func parsePositiveID(raw string) (int64, bool) {
	if !positiveInt.MatchString(raw) {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// pathID lee el parámetro de ruta name como id positivo.
func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, ok := parsePositiveID(c.Params(name))
	if !ok {
		return 0, domain.NewValidationError("parámetros inválidos").Add(name, "debe ser un entero positivo")
	}
	return id, nil
}

// queryParser acumula errores de validación de la query string.
type queryParser struct {
	c  *fiber.Ctx
	ve *domain.ValidationError
}

func newQueryParser(c *fiber.Ctx) *queryParser {
	return &queryParser{c: c, ve: domain.NewValidationError("parámetros inválidos")}
}

// intInRange devuelve 0 si el parámetro no viene.
func (q *queryParser) intInRange(key string, min, max int) int {
	raw := q.c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		q.ve.Add(key, "debe ser un entero entre "+strconv.Itoa(min)+" y "+strconv.Itoa(max))
		return 0
	}
	return n
}

// optionalInt nil si el parámetro no viene.
func (q *queryParser) optionalInt(key string, min int) *int {
	raw := q.c.Query(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min {
		q.ve.Add(key, "debe ser un entero mayor o igual a "+strconv.Itoa(min))
		return nil
	}
	return &n
}

func (q *queryParser) optionalID(key string) *int64 {
	raw := q.c.Query(key)
	if raw == "" {
		return nil
	}
	id, ok := parsePositiveID(raw)
	if !ok {
		q.ve.Add(key, "debe ser un entero positivo")
		return nil
	}
	return &id
}

// date acepta RFC 3339 o YYYY-MM-DD (UTC). Con endOfDay una fecha sin hora cubre el día completo.
func (q *queryParser) date(key string, endOfDay bool) *time.Time {
	raw := q.c.Query(key)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		q.ve.Add(key, "debe ser una fecha RFC 3339 o YYYY-MM-DD")
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}

func (q *queryParser) err() error {
	if q.ve.HasErrors() {
		return q.ve
	}
	return nil
}
