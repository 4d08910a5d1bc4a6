package handle

import "github.com/robalobadob/wordle/apps/handle-solver/internal/tile"

// Feedback judges guess against secret with the two-pass multiset rule.
//
// Pass 1 marks exact slot matches and counts the unmatched secret tiles by kind.
// Pass 2 walks the remaining guess slots left to right: a kind with an unconsumed
// copy left is Present and consumes it, otherwise Absent.
func Feedback(guess, secret Hand) Result {
	var res Result
	var counts [tile.NumKinds]uint8

	for i := 0; i < HandSize; i++ {
		if guess[i] == secret[i] {
			res[i] = Match
		} else {
			counts[secret[i]]++
		}
	}
	for i := 0; i < HandSize; i++ {
		if guess[i] == secret[i] {
			continue
		}
		if k := guess[i]; counts[k] > 0 {
			res[i] = Present
			counts[k]--
		} else {
			res[i] = Absent
		}
	}
	return res
}

// Satisfies reports whether Feedback(guess, candidate) == result without building the
// full result; it returns at the first slot that disagrees.
func Satisfies(candidate, guess Hand, result Result) bool {
	var counts [tile.NumKinds]uint8

	for i := 0; i < HandSize; i++ {
		same := guess[i] == candidate[i]
		if same != (result[i] == Match) {
			return false
		}
		if !same {
			counts[candidate[i]]++
		}
	}
	for i := 0; i < HandSize; i++ {
		if result[i] == Match {
			continue
		}
		if k := guess[i]; counts[k] > 0 {
			if result[i] != Present {
				return false
			}
			counts[k]--
		} else if result[i] != Absent {
			return false
		}
	}
	return true
}
