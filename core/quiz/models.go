package quiz

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type (
	Question struct {
		Text          string   `json:"question_text" bson:"questionText"`
		Options       []string `json:"options" bson:"options"`
		CorrectOption int      `json:"correct_option" bson:"correctOption"`
	}

	Quiz struct {
		ID        string     `json:"id" bson:"_id,omitempty"`
		RoundID   string     `json:"round_id" bson:"roundId"`
		Questions []Question `json:"questions" bson:"questions"`
		CreatedAt time.Time  `json:"created_at" bson:"createdAt"`
		UpdatedAt time.Time  `json:"updated_at" bson:"updatedAt"`
	}
)

// Score counts exact positional matches. Missing or out-of-range answers
// score zero for their question.
func (q Quiz) Score(answers []int) int {
	var score int
	for i, question := range q.Questions {
		if i < len(answers) && answers[i] == question.CorrectOption {
			score++
		}
	}
	return score
}

type (
	NewQuestion struct {
		Text          string   `json:"question_text" validate:"required"`
		Options       []string `json:"options" validate:"len=4,dive,required"`
		CorrectOption int      `json:"correct_option" validate:"min=0,max=3"`
	}

	NewQuiz struct {
		RoundID   string        `json:"round_id" validate:"required,hexid"`
		Questions []NewQuestion `json:"questions" validate:"min=1,dive"`
	}

	Submission struct {
		RoundID string `json:"round_id" validate:"required,hexid"`
		Answers []int  `json:"answers" validate:"required"`
	}
)

func (nq *NewQuiz) Validate(validate *validator.Validate) error {
	return validate.Struct(nq)
}

func (s *Submission) Validate(validate *validator.Validate) error {
	return validate.Struct(s)
}
