package repository

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
