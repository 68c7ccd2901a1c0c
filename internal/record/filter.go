package record

import "strings"

// FilterOptions selects records for a batch. Zero options select everything.
type FilterOptions struct {
	FreeWords string
	Equals    map[string]string
}

func containsFold(values map[string]string, word string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), word) {
			return true
		}
	}
	return false
}

func Filter(recs []Record, opt FilterOptions) []Record {
	words := strings.Fields(strings.ToLower(opt.FreeWords))
	var out []Record
	for _, r := range recs {
		ok := true
		for k, want := range opt.Equals {
			if !strings.EqualFold(strings.TrimSpace(r.Fields[k]), strings.TrimSpace(want)) {
				ok = false
				break
			}
		}
		for _, w := range words {
			if !ok {
				break
			}
			ok = containsFold(r.Fields, w)
		}
		if ok {
			out = append(out, r)
		}
	}
	return out
}

// ParseEquals reads "key=value,key=value". Pairs without "=" are ignored.
func ParseEquals(s string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}
