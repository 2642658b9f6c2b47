package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/censo-resguardo/censo-backend/pkg/survey/types"
)

const (
	EXPORT_FORMAT_CSV  = "csv"
	EXPORT_FORMAT_JSON = "json"
)

const multiValueSep = "; "

// ResponseExporter writes survey records to a writer, one row (or one JSON
// object) per record and one column per catalog question.
type ResponseExporter struct {
	questions []types.Question
	format    string
	csvWriter *csv.Writer
	jsonOut   io.Writer
	jsonCount int
}

func NewResponseExporter(questions []types.Question, writer io.Writer, format string) (*ResponseExporter, error) {
	re := &ResponseExporter{
		questions: questions,
		format:    format,
	}

	switch format {
	case EXPORT_FORMAT_CSV:
		re.csvWriter = csv.NewWriter(writer)
		if err := re.writeHeader(); err != nil {
			return nil, err
		}
	case EXPORT_FORMAT_JSON:
		re.jsonOut = writer
		if _, err := io.WriteString(writer, `{"responses":[`); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	return re, nil
}

func (re *ResponseExporter) WriteRecord(record types.SurveyRecord) error {
	switch re.format {
	case EXPORT_FORMAT_CSV:
		row := make([]string, 0, len(re.questions)+4)
		row = append(row,
			record.ID,
			record.SurveyorName,
			record.Status,
			record.StartTime.Format("2006-01-02 15:04:05"),
		)
		answers := answersByQuestion(record)
		for _, q := range re.questions {
			row = append(row, formatAnswer(answers[q.ID]))
		}
		return re.csvWriter.Write(row)
	case EXPORT_FORMAT_JSON:
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		if re.jsonCount > 0 {
			if _, err := io.WriteString(re.jsonOut, ","); err != nil {
				return err
			}
		}
		re.jsonCount++
		_, err = re.jsonOut.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format: %s", re.format)
	}
}

func (re *ResponseExporter) Finish() error {
	switch re.format {
	case EXPORT_FORMAT_CSV:
		re.csvWriter.Flush()
		return re.csvWriter.Error()
	case EXPORT_FORMAT_JSON:
		_, err := io.WriteString(re.jsonOut, "]}")
		return err
	}
	return nil
}

func (re *ResponseExporter) writeHeader() error {
	header := make([]string, 0, len(re.questions)+4)
	header = append(header, "id", "surveyor", "status", "startTime")
	for _, q := range re.questions {
		header = append(header, q.ID)
	}
	return re.csvWriter.Write(header)
}

func answersByQuestion(record types.SurveyRecord) map[string]types.AnswerValue {
	out := make(map[string]types.AnswerValue, len(record.Responses))
	for _, r := range record.Responses {
		out[r.QuestionID] = r.Value
	}
	return out
}

// formatAnswer flattens an answer value to a single export cell.
func formatAnswer(value types.AnswerValue) string {
	switch value.Type {
	case types.ANSWER_TYPE_TEXT:
		return value.Text
	case types.ANSWER_TYPE_NUMBER:
		return value.Number
	case types.ANSWER_TYPE_SELECTION:
		return value.Selection
	case types.ANSWER_TYPE_MULTI:
		return strings.Join(value.Selections, multiValueSep)
	case types.ANSWER_TYPE_COORDINATES:
		if value.Coordinates == nil {
			return ""
		}
		return strconv.FormatFloat(value.Coordinates.Latitude, 'f', -1, 64) +
			"," + strconv.FormatFloat(value.Coordinates.Longitude, 'f', -1, 64)
	}
	return ""
}
