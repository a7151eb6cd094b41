package services

import (
	"fmt"
	"strings"
	"testing"

	"quranstudy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormedQuiz = `Here is your quiz:

1. How many ayahs are in Surah Al-Fatiha?
A) 5
B) 6
C) 7
D) 8
Answer: C

2. Which surah is known as the heart of the Quran?
A) Ya-Sin
B) Al-Mulk
C) Ar-Rahman
D) Al-Kahf
Answer: A

3.   Which surah has no Bismillah at its start?
A. At-Tawbah
B. Al-Anfal
C. Yunus
D. Hud
Correct answer: a
`

func TestParseQuizWellFormed(t *testing.T) {
	questions, err := ParseQuiz(wellFormedQuiz)
	require.NoError(t, err)
	require.Len(t, questions, 3)

	assert.Equal(t, "How many ayahs are in Surah Al-Fatiha?", questions[0].Question)
	assert.Equal(t, []string{"5", "6", "7", "8"}, []string(questions[0].Options))
	assert.Equal(t, 2, questions[0].CorrectAnswer)

	assert.Equal(t, 0, questions[1].CorrectAnswer)

	assert.Equal(t, "Which surah has no Bismillah at its start?", questions[2].Question)
	assert.Equal(t, "At-Tawbah", questions[2].Options[0])
	assert.Equal(t, 0, questions[2].CorrectAnswer)

	seen := map[string]bool{}
	for _, q := range questions {
		require.NotEmpty(t, q.ID)
		assert.False(t, seen[q.ID], "question ids must be unique")
		seen[q.ID] = true
	}
}

func TestParseQuizDropsMalformedQuestions(t *testing.T) {
	text := `1. Only three options
A) one
B) two
C) three
Answer: A

2. Answer out of range
A) one
B) two
C) three
D) four
Answer: E

3. Missing answer
A) one
B) two
C) three
D) four

4.
A) one
B) two
C) three
D) four
Answer: B

5. Five options
A) one
B) two
C) three
D) four
D) again
Answer: B

6. The one good question
A) one
B) two
C) three
D) four
Answer: D
`
	questions, err := ParseQuiz(text)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "The one good question", questions[0].Question)
	assert.Equal(t, 3, questions[0].CorrectAnswer)
}

func TestParseQuizIgnoresLinesBeforeFirstQuestion(t *testing.T) {
	text := "A) stray option\nAnswer: B\n1. Real question\nA) a\nB) b\nC) c\nD) d\nAnswer: b\n"

	questions, err := ParseQuiz(text)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, []string{"a", "b", "c", "d"}, []string(questions[0].Options))
	assert.Equal(t, 1, questions[0].CorrectAnswer)
}

func TestParseQuizAnswerWithTrailingExplanation(t *testing.T) {
	text := "1. Which surah is called the heart of the Quran?\nA) Al-Fatiha\nB) Yasin\nC) Al-Mulk\nD) Al-Ikhlas\nAnswer: B: it is narrated as the heart\n\n" +
		"2. How many ayahs are in Al-Kawthar?\nA) 3\nB) 4\nC) 5\nD) 6\nAnswer: B) 4\n"

	questions, err := ParseQuiz(text)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Which surah is called the heart of the Quran?", questions[0].Question)
	assert.Equal(t, 1, questions[0].CorrectAnswer)
}

func TestParseQuizHandlesWindowsLineEndings(t *testing.T) {
	text := strings.ReplaceAll(wellFormedQuiz, "\n", "\r\n")

	questions, err := ParseQuiz(text)
	require.NoError(t, err)
	assert.Len(t, questions, 3)
}

func TestParseQuizRejectsUnusableText(t *testing.T) {
	for _, text := range []string{"", "   \n\n", "no structured content", "1. question without options\nAnswer: A"} {
		_, err := ParseQuiz(text)
		assert.ErrorIs(t, err, ErrNoValidQuestions, "input %q", text)
	}
}

func TestParseQuizRoundTrip(t *testing.T) {
	first, err := ParseQuiz(wellFormedQuiz)
	require.NoError(t, err)

	second, err := ParseQuiz(FormatQuiz(first))
	require.NoError(t, err)
	require.Len(t, second, len(first))

	for i := range first {
		assert.Equal(t, first[i].Question, second[i].Question)
		assert.Equal(t, first[i].Options, second[i].Options)
		assert.Equal(t, first[i].CorrectAnswer, second[i].CorrectAnswer)
	}
}

func TestParseQuizCountsEveryWellFormedBlock(t *testing.T) {
	for _, n := range []int{1, 10, 20} {
		questions := make([]models.Question, n)
		for i := range questions {
			questions[i] = models.Question{
				Question:      fmt.Sprintf("Question %d?", i+1),
				Options:       []string{"w", "x", "y", "z"},
				CorrectAnswer: i % models.OptionsPerQuestion,
			}
		}

		parsed, err := ParseQuiz(FormatQuiz(questions))
		require.NoError(t, err)
		require.Len(t, parsed, n)
		for i, q := range parsed {
			assert.Len(t, q.Options, models.OptionsPerQuestion)
			assert.Equal(t, i%models.OptionsPerQuestion, q.CorrectAnswer)
		}
	}
}
