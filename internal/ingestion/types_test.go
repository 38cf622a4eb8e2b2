package ingestion

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/AKNosov/InfSearch/pkg/errors"
)

func TestPageValidate(t *testing.T) {
	valid := Page{URL: "https://lenta.ru/news/1", Text: "нефть и газ"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid page rejected: %v", err)
	}

	cases := []struct {
		name string
		page Page
		want error
	}{
		{"empty url", Page{Text: "текст"}, apperrors.ErrInvalidInput},
		{"empty text", Page{URL: "https://x.ru"}, apperrors.ErrInvalidInput},
		{"oversized text", Page{URL: "https://x.ru", Text: strings.Repeat("a", MaxTextBytes+1)}, apperrors.ErrPageTooLarge},
	}
	for _, tc := range cases {
		err := tc.page.Validate()
		if err == nil || !errors.Is(err, tc.want) {
			t.Errorf("%s: Validate() = %v, want %v", tc.name, err, tc.want)
		}
	}
}
