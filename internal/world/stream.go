package world

// Stream детерминированный поток псевдослучайных чисел: линейный
// конгруэнтный генератор над 31-битным состоянием. Намеренно простой
// и переносимый — одинаковый сид дает одинаковую последовательность
// на любой платформе и в любом языке.
type Stream struct {
	state int64
}

const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgMask       = 0x7FFFFFFF
)

// NewStream создает поток из сида. Состояние сводится к 31 биту;
// нулевое состояние заменяется единицей, иначе поток выродится.
func NewStream(seed int64) *Stream {
	state := seed & lcgMask
	if state == 0 {
		state = 1
	}
	return &Stream{state: state}
}

// Next возвращает следующее значение потока в [0, 1)
func (s *Stream) Next() float64 {
	s.state = (s.state*lcgMultiplier + lcgIncrement) & lcgMask
	return float64(s.state) / float64(lcgMask+1)
}

// Range возвращает следующее значение потока в [min, max)
func (s *Stream) Range(min, max float64) float64 {
	return min + s.Next()*(max-min)
}
