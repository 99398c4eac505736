package textnorm

import "testing"

func TestClean(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "nbsp", in: "ст.\u00a0121", want: "ст. 121"},
		{name: "narrow nbsp", in: "КК\u202fУкраїни", want: "КК України"},
		{name: "thin space", in: "1\u2009000", want: "1 000"},
		{name: "line separator", in: "a\u2028b\u2029c", want: "a b c"},
		{name: "zero width", in: "Ст\u200bаття\ufeff", want: "Стаття"},
		{name: "soft hyphen", in: "кра\u00adдіжка", want: "крадіжка"},
		{name: "decomposed", in: "и\u0306", want: "й"},
		{name: "plain", in: "ч. 2 ст. 185", want: "ч. 2 ст. 185"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Clean(tc.in); got != tc.want {
				t.Fatalf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
