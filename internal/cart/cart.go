package cart

import (
	"strconv"

	"github.com/CHRISTIANARIBAL/guiritan/internal/session"
)

// The cart lives in the session under a single attribute as a
// product-id -> quantity map. Keys are strings because the map round-
// trips through JSON when the session store is Redis; for the same
// reason quantities may come back as float64 and are normalized here.

const attributeKey = "cart"

func Lines(s *session.Session) map[string]int {
	switch v := s.Get(attributeKey).(type) {
	case map[string]int:
		return v
	case map[string]any:
		lines := make(map[string]int, len(v))
		for id, qty := range v {
			switch q := qty.(type) {
			case float64:
				lines[id] = int(q)
			case int:
				lines[id] = q
			}
		}
		return lines
	}

	return map[string]int{}
}

func put(s *session.Session, lines map[string]int) {
	s.Put(attributeKey, lines)
}

func Add(s *session.Session, productID int) {
	lines := Lines(s)
	id := strconv.Itoa(productID)
	lines[id] = lines[id] + 1
	put(s, lines)
}

func Increase(s *session.Session, productID int) {
	lines := Lines(s)
	id := strconv.Itoa(productID)
	if _, ok := lines[id]; ok {
		lines[id]++
	}
	put(s, lines)
}

// Decrease drops the quantity by one, removing the line entirely when
// it reaches zero.
func Decrease(s *session.Session, productID int) {
	lines := Lines(s)
	id := strconv.Itoa(productID)
	if qty, ok := lines[id]; ok {
		if qty > 1 {
			lines[id] = qty - 1
		} else {
			delete(lines, id)
		}
	}
	put(s, lines)
}

func Remove(s *session.Session, productID int) {
	lines := Lines(s)
	delete(lines, strconv.Itoa(productID))
	put(s, lines)
}

func RemoveAll(s *session.Session, productIDs []int) {
	lines := Lines(s)
	for _, id := range productIDs {
		delete(lines, strconv.Itoa(id))
	}
	put(s, lines)
}

func Quantity(s *session.Session, productID int) int {
	return Lines(s)[strconv.Itoa(productID)]
}

func ProductIDs(s *session.Session) []int {
	lines := Lines(s)

	ids := make([]int, 0, len(lines))
	for id := range lines {
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		ids = append(ids, n)
	}

	return ids
}
