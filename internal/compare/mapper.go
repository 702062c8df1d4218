package compare

import "strings"

// MapResponse translates a raw provider response into a normalized record.
// With a mapping table the output keys are exactly the mapping's keys, each
// value read from the dot-separated source path in raw; a missing path leaves
// a nil value. Without a mapping the default shape is {price, name}.
func MapResponse(raw map[string]any, mapping map[string]string, providerName string) Result {
	if len(mapping) == 0 {
		price, ok := raw["price"]
		if !ok || price == nil {
			price = "N/A"
		}
		return Result{"price": price, "name": providerName}
	}

	out := make(Result, len(mapping))
	for field, path := range mapping {
		out[field] = lookupPath(raw, path)
	}
	return out
}

func lookupPath(raw map[string]any, path string) any {
	var current any = raw
	for _, segment := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = obj[segment]
		if !ok {
			return nil
		}
	}
	return current
}
