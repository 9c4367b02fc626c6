package noise

// Hash2 возвращает детерминированный 64-битный хеш пары целочисленных
// координат и сида. Используется для опорных точек Вороного и всех
// прочих мест, где нужна воспроизводимая "случайность" по ячейке.
func Hash2(x, z, seed int64) int64 {
	h := uint64(seed) ^ uint64(x)*0x9E3779B97F4A7C15 ^ uint64(z)*0xC2B2AE3D27D4EB4F
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	h *= 0xC4CEB9FE1A85EC53
	h ^= h >> 33
	return int64(h)
}

// Float01 отображает хеш в [0, 1)
func Float01(h int64) float64 {
	return float64(uint64(h)>>11) / float64(1<<53)
}

// Abs64 возвращает модуль со страховкой от переполнения MinInt64
func Abs64(v int64) int64 {
	if v < 0 {
		v = -v
	}
	if v < 0 {
		return 0
	}
	return v
}
