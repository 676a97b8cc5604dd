// Package parser coerces free-text generation replies into structured
// multiple-choice questions. Generation output formatting is not fully
// reliable, so parsing runs independent strategies in sequence: a strict
// whole-reply pattern first, then a block-splitting fallback that tolerates
// missing separators and extra labels.
package parser

import (
	"math"
	"regexp"
	"strings"

	"quizforge/internal/domain"
)

// Strategy is a pure text-to-questions pass. It may return fewer than
// want questions; it must never return more.
type Strategy func(text string, want int) []domain.Question

// The exact 6-line layout the generator is instructed to emit: question
// line, options a) through d), answer line naming one letter.
var strictPattern = regexp.MustCompile(
	`(?is)Question:?\s*(.*?)\n\s*(a\).*?)\n\s*(b\).*?)\n\s*(c\).*?)\n\s*(d\).*?)\n\s*Answer:?\s*([a-d])`)

// StrictPass scans the full reply for the exact 6-line pattern,
// case-insensitive and whitespace-tolerant, in source order.
func StrictPass(text string, want int) []domain.Question {
	var questions []domain.Question
	for _, m := range strictPattern.FindAllStringSubmatch(text, -1) {
		if len(questions) >= want {
			break
		}
		questions = append(questions, domain.Question{
			Number: len(questions) + 1,
			Text:   strings.TrimSpace(m[1]),
			Options: []string{
				strings.TrimSpace(m[2]),
				strings.TrimSpace(m[3]),
				strings.TrimSpace(m[4]),
				strings.TrimSpace(m[5]),
			},
			Answer: strings.ToLower(strings.TrimSpace(m[6])),
		})
	}
	return questions
}

var (
	blockSplit    = regexp.MustCompile(`\n\s*\n+`)
	questionLabel = regexp.MustCompile(`(?i)^(?:Question:?\s*\d*\.?\s*)?(.*)`)
	optionLine    = regexp.MustCompile(`(?i)^\s*([a-d])\)\s*(.*)`)
	answerLine    = regexp.MustCompile(`(?i)Answer:?\s*([a-d])\.?\s*$`)
)

// FallbackPass splits the reply on blank lines and mines each block with
// at least 6 non-empty lines: first line is the question (any leading
// "Question" label stripped), option lines are matched by letter marker
// with the first occurrence per letter winning, and the answer is found
// scanning lines in reverse. A block yields a question only when the
// text, all four options, and the answer letter are all present.
func FallbackPass(text string, want int) []domain.Question {
	var questions []domain.Question
	for _, block := range blockSplit.Split(strings.TrimSpace(text), -1) {
		if len(questions) >= want {
			break
		}

		var lines []string
		for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		if len(lines) < 6 {
			continue
		}

		qText := ""
		if m := questionLabel.FindStringSubmatch(lines[0]); m != nil {
			qText = strings.TrimSpace(m[1])
		}

		found := map[string]string{}
		for _, line := range lines[1:] {
			if m := optionLine.FindStringSubmatch(line); m != nil {
				letter := strings.ToLower(m[1])
				if _, seen := found[letter]; !seen {
					found[letter] = letter + ") " + strings.TrimSpace(m[2])
				}
			}
		}
		if len(found) != 4 {
			continue
		}

		answer := ""
		for i := len(lines) - 1; i >= 0; i-- {
			if m := answerLine.FindStringSubmatch(lines[i]); m != nil {
				answer = strings.ToLower(m[1])
				break
			}
		}

		if qText == "" || answer == "" {
			continue
		}
		questions = append(questions, domain.Question{
			Number:  len(questions) + 1,
			Text:    qText,
			Options: []string{found["a"], found["b"], found["c"], found["d"]},
			Answer:  answer,
		})
	}
	return questions
}

// DefaultStrategies is the ordered strategy chain. A third strategy can
// be appended without touching the existing two.
var DefaultStrategies = []Strategy{StrictPass, FallbackPass}

// Parse runs the strategy chain, filling up to want questions. Later
// strategies only run while the list is under-filled, and a question
// whose text exactly matches an already-accepted one is rejected.
// Numbers are reassigned 1..n in acceptance order.
func Parse(text string, want int) []domain.Question {
	return parseWith(DefaultStrategies, text, want)
}

func parseWith(strategies []Strategy, text string, want int) []domain.Question {
	var accepted []domain.Question
	seen := map[string]bool{}
	for _, strategy := range strategies {
		if len(accepted) >= want {
			break
		}
		for _, q := range strategy(text, want) {
			if len(accepted) >= want {
				break
			}
			if seen[q.Text] {
				continue
			}
			seen[q.Text] = true
			q.Number = len(accepted) + 1
			accepted = append(accepted, q)
		}
	}
	return accepted
}

// minParseRatio is the fraction of requested questions that must parse
// for a generation round to be accepted.
const minParseRatio = 0.7

// Sufficient reports whether a parse result meets the acceptance
// threshold for the requested count.
func Sufficient(parsed, want int) bool {
	return parsed >= MinRequired(want)
}

// MinRequired returns the minimum accepted question count for a request.
func MinRequired(want int) int {
	return int(math.Ceil(minParseRatio * float64(want)))
}
