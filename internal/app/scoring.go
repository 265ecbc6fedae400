package app

import "footyiq-service/internal/domain"

// pointsPerCorrect is the fixed award per correct answer. No partial or
// time-based credit.
const pointsPerCorrect = 10

// answerKey maps question IDs to their normalized correct index. Questions
// whose stored index could not be coerced to an integer carry an invalid
// FlexInt and can never be scored correct.
type answerKey map[string]domain.FlexInt

func buildAnswerKey(questions []domain.Question) answerKey {
	key := make(answerKey, len(questions))
	for _, q := range questions {
		key[q.ID] = q.AnswerIndex
	}
	return key
}

// scoreAnswers counts exact matches between submitted indices and the
// answer key. Unknown question IDs and uncoercible indices are skipped;
// a malformed answer must never abort scoring of the rest.
func scoreAnswers(key answerKey, answers []domain.SubmittedAnswer) int {
	correct := 0
	for _, answer := range answers {
		want, ok := key[answer.QuestionID]
		if !ok {
			continue
		}
		if !answer.SelectedIndex.Valid || !want.Valid {
			continue
		}
		if answer.SelectedIndex.Value == want.Value {
			correct++
		}
	}
	return correct
}
