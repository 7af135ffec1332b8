// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filename

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdf/paperdf/pkg/types"
)

func TestLocalValidator(t *testing.T) {
	var v LocalValidator
	ctx := context.Background()

	paperTmpl := "{journal} - {year} - {authors} - {title}.pdf"
	bookTmpl := "{authors} - {title} - {journal} ({year}).pdf"

	tests := []struct {
		name         string
		filename     string
		filenameTmpl string
		authorTmpl   string
		want         bool
	}{
		{
			name:         "conforming paper name",
			filename:     "Acm - 2020 - Doe - A Study.pdf",
			filenameTmpl: paperTmpl,
			authorTmpl:   "{surname}",
			want:         true,
		},
		{
			name:         "multiple authors",
			filename:     "Acm - 2020 - Doe, Smith - A Study.pdf",
			filenameTmpl: paperTmpl,
			authorTmpl:   "{surname}",
			want:         true,
		},
		{
			name:         "directory component ignored",
			filename:     "/papers/in/Acm - 2020 - Doe - A Study.pdf",
			filenameTmpl: paperTmpl,
			authorTmpl:   "{surname}",
			want:         true,
		},
		{
			name:         "raw download name does not conform",
			filename:     "2007.12345v2.pdf",
			filenameTmpl: paperTmpl,
			authorTmpl:   "{surname}",
			want:         false,
		},
		{
			name:         "missing segment does not conform",
			filename:     "Acm - 2020 - A Study.pdf",
			filenameTmpl: paperTmpl,
			authorTmpl:   "{surname}",
			want:         false,
		},
		{
			name:         "conforming book name with initials",
			filename:     "Tolkien, J. - The Hobbit - Allen And Unwin (1937).pdf",
			filenameTmpl: bookTmpl,
			authorTmpl:   "{surname}, {first_initial}.",
			want:         true,
		},
		{
			name:         "book name without initial does not conform",
			filename:     "Tolkien - The Hobbit - Allen And Unwin (1937).pdf",
			filenameTmpl: bookTmpl,
			authorTmpl:   "{surname}, {first_initial}.",
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.IsAlreadyFormatted(ctx, tt.filename, false, tt.filenameTmpl, tt.authorTmpl)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A filename produced by Build must satisfy the validator under the
// same templates.
func TestBuildValidateRoundTrip(t *testing.T) {
	var b Builder
	var v LocalValidator
	ctx := context.Background()

	metas := []types.Metadata{
		{Authors: []string{"Jane Doe"}, Year: "2020", Journal: "Acm", Title: "A Study"},
		{Authors: []string{"Jane Doe", "John Q. Smith Jr."}, Year: "n.d.", Journal: "", Title: "Untitled Notes"},
		{Authors: nil, Year: "2019-2020", Journal: "Springer", Title: ""},
	}

	for _, meta := range metas {
		name, err := b.Build(meta, types.DefaultOutputPattern, types.DefaultAuthorFormatPaper)
		require.NoError(t, err)

		ok, err := v.IsAlreadyFormatted(ctx, name, false, types.DefaultOutputPattern, types.DefaultAuthorFormatPaper)
		require.NoError(t, err)
		assert.True(t, ok, "built name %q should validate", name)
	}
}

func TestLocalValidatorRejectsBadTemplates(t *testing.T) {
	var v LocalValidator
	_, err := v.IsAlreadyFormatted(context.Background(), "x.pdf", false, "{bogus}.pdf", "{surname}")
	assert.ErrorIs(t, err, ErrUnknownPlaceholder)
}
