package utils

// TryParse runs parse on raw and returns a pointer to the value, or nil when
// parse fails. The error itself is never surfaced.
func TryParse[T any](raw string, parse func(string) (T, error)) *T {
	v, err := parse(raw)
	if err != nil {
		return nil
	}
	return &v
}
