package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"quranstudy/models"

	"github.com/google/uuid"
)

var ErrNoValidQuestions = errors.New("no valid questions could be parsed from the response")

var (
	questionLine   = regexp.MustCompile(`^\d+\.`)
	questionPrefix = regexp.MustCompile(`^\d+\.\s*`)
	optionLine     = regexp.MustCompile(`^[A-D][).]\s`)
	optionPrefix   = regexp.MustCompile(`^[A-D][).]\s*`)
)

const (
	optionLetters = "ABCD"
	noAnswer      = -1
)

type parserState int

const (
	awaitingQuestion parserState = iota
	inQuestion
)

type draftQuestion struct {
	text    string
	options []string
	answer  int
}

func (d draftQuestion) valid() bool {
	return d.text != "" &&
		len(d.options) == models.OptionsPerQuestion &&
		d.answer >= 0 && d.answer < models.OptionsPerQuestion
}

// ParseQuiz turns generated text into questions. Each question starts with a numbered line,
// followed by A-D option lines and an "Answer: X" line. Unrecognized lines are ignored, and
// only questions with text, four options and a valid answer are returned.
func ParseQuiz(text string) ([]models.Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoValidQuestions
	}

	var (
		drafts  []draftQuestion
		current draftQuestion
		state   = awaitingQuestion
	)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case questionLine.MatchString(line):
			if state == inQuestion {
				drafts = append(drafts, current)
			}
			current = draftQuestion{
				text:   strings.TrimSpace(questionPrefix.ReplaceAllString(line, "")),
				answer: noAnswer,
			}
			state = inQuestion

		case optionLine.MatchString(line):
			if state == inQuestion {
				current.options = append(current.options, strings.TrimSpace(optionPrefix.ReplaceAllString(line, "")))
			}

		case strings.Contains(strings.ToLower(line), "answer:"):
			if state == inQuestion {
				current.answer = answerIndex(line)
			}
		}
	}
	if state == inQuestion {
		drafts = append(drafts, current)
	}

	var questions []models.Question
	for _, d := range drafts {
		if !d.valid() {
			continue
		}
		questions = append(questions, models.Question{
			ID:            uuid.NewString(),
			Question:      d.text,
			Options:       d.options,
			CorrectAnswer: d.answer,
		})
	}

	if len(questions) == 0 {
		return nil, ErrNoValidQuestions
	}
	return questions, nil
}

// answerIndex maps the letter between the first and second colon to a zero-based
// option index, so "Answer: B: because ..." reads as B.
func answerIndex(line string) int {
	_, after, _ := strings.Cut(line, ":")
	after, _, _ = strings.Cut(after, ":")
	letter := strings.ToUpper(strings.TrimSpace(after))
	if len(letter) != 1 {
		return noAnswer
	}
	return strings.Index(optionLetters, letter)
}

// FormatQuiz renders questions in the line format ParseQuiz reads.
func FormatQuiz(questions []models.Question) string {
	var b strings.Builder
	for i, q := range questions {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			if j >= len(optionLetters) {
				break
			}
			fmt.Fprintf(&b, "%c) %s\n", optionLetters[j], opt)
		}
		if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(optionLetters) {
			fmt.Fprintf(&b, "Answer: %c\n", optionLetters[q.CorrectAnswer])
		}
	}
	return b.String()
}
