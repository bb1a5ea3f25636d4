package config

// Merge deep-merges override onto base and returns a new tree. Maps merge
// key by key; any other value in override, arrays included, replaces the base
// value outright. Neither input is modified.
func Merge(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = clone(v)
	}
	for k, v := range override {
		baseMap, baseIsMap := out[k].(map[string]any)
		overMap, overIsMap := v.(map[string]any)
		if baseIsMap && overIsMap {
			out[k] = Merge(baseMap, overMap)
			continue
		}
		out[k] = clone(v)
	}
	return out
}

func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Merge(t, nil)
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = clone(item)
		}
		return items
	}
	return v
}
