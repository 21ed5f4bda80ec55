package source

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-vcard"

	"github.com/matzehuels/calsheet/pkg/errors"
)

// Layouts accepted for BDAY values. The year-less forms are parsed as
// year 2000 so 29 February survives.
var bdayLayouts = []struct {
	layout   string
	yearless bool
}{
	{"2006-01-02", false},
	{"20060102", false},
	{time.RFC3339, false},
	{"2006-01-02T15:04:05Z", false},
	{"--01-02", true},
	{"--0102", true},
}

// BirthdaySpec formats a birthday the way calendar params expect it.
func BirthdaySpec(day int, month time.Month, name string) string {
	return fmt.Sprintf("%d/%d-%s", day, int(month), name)
}

// ReadVCardBirthdays decodes every card in r and returns one birthday spec
// per card with a usable BDAY. The name is FN when present, otherwise the
// structured N as "Given Family". Cards without a birthday or a name are
// skipped.
func ReadVCardBirthdays(ctx context.Context, r io.Reader) ([]string, error) {
	dec := vcard.NewDecoder(r)
	var out []string
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		card, err := dec.Decode()
		if stderrors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "vcard %d", n)
		}

		bday := card.Get(vcard.FieldBirthday)
		if bday == nil || bday.Value == "" {
			continue
		}
		date, ok := parseBirthday(bday.Value)
		if !ok {
			continue
		}
		name := cardName(card)
		if name == "" {
			continue
		}
		out = append(out, BirthdaySpec(date.Day(), date.Month(), name))
	}
}

func parseBirthday(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range bdayLayouts {
		t, err := time.Parse(l.layout, s)
		if err != nil {
			continue
		}
		if l.yearless {
			t = time.Date(2000, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
		return t, true
	}
	return time.Time{}, false
}

// cardName flattens whitespace so a name never spans lines.
func cardName(card vcard.Card) string {
	var name string
	if fn := card.Get(vcard.FieldFormattedName); fn != nil && strings.TrimSpace(fn.Value) != "" {
		name = fn.Value
	} else if n := card.Name(); n != nil {
		name = n.GivenName + " " + n.FamilyName
	}
	return strings.Join(strings.Fields(name), " ")
}
