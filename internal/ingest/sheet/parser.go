// Package sheet ingests the scoring table's CSV export of lift plans and
// attempts.
//
// The format is semicolon separated, one record per line:
//
//	PLAN;<participant>;<lift>;<w1>[;<w2>[;<w3>]]
//	ATTEMPT;<participant>;<lift>;<number>;<weight>[;<result>]
//
// Lines starting with # and blank lines are ignored. Weights may use a
// decimal comma. A plan with fewer than three weights repeats its last one.
package sheet

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/claude/meetday/internal/models"
)

const (
	kindPlan    = "PLAN"
	kindAttempt = "ATTEMPT"
)

// Parse reads a sheet. Malformed rows are collected in Sheet.Rejected; only
// read errors are returned.
func Parse(r io.Reader) (*models.Sheet, error) {
	sheet := &models.Sheet{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields, err := splitFields(line)
		if err != nil {
			sheet.Rejected = append(sheet.Rejected, models.SheetRejection{Line: lineNo, Text: line, Reason: err.Error()})
			continue
		}
		switch strings.ToUpper(fields[0]) {
		case kindPlan:
			var p models.SheetPlan
			if p, err = parsePlan(fields); err == nil {
				p.Line = lineNo
				sheet.Plans = append(sheet.Plans, p)
			}
		case kindAttempt:
			var a models.SheetAttempt
			if a, err = parseAttempt(fields); err == nil {
				a.Line = lineNo
				sheet.Attempts = append(sheet.Attempts, a)
			}
		default:
			err = fmt.Errorf("unknown record type %q", fields[0])
		}
		if err != nil {
			sheet.Rejected = append(sheet.Rejected, models.SheetRejection{Line: lineNo, Text: line, Reason: err.Error()})
		}
	}

	return sheet, scanner.Err()
}

// splitFields reads one semicolon separated record. Quoted fields may hold
// semicolons.
func splitFields(line string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	fields, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("splitting fields: %w", err)
	}
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields, nil
}

func parsePlan(f []string) (models.SheetPlan, error) {
	if len(f) < 4 || len(f) > 6 {
		return models.SheetPlan{}, errors.New("PLAN needs participant, lift and 1 to 3 weights")
	}
	p := models.SheetPlan{Participant: f[1]}
	if p.Participant == "" {
		return p, errors.New("missing participant")
	}
	lift, err := models.ParseLift(f[2])
	if err != nil {
		return p, err
	}
	p.Lift = lift

	ws := f[3:]
	for i := range p.Weights {
		if i < len(ws) && ws[i] != "" {
			if p.Weights[i], err = parseWeight(ws[i]); err != nil {
				return p, err
			}
			continue
		}
		if i == 0 {
			return p, errors.New("missing opener weight")
		}
		p.Weights[i] = p.Weights[i-1]
	}
	return p, models.CheckWeights(p.Weights[:]...)
}

func parseAttempt(f []string) (models.SheetAttempt, error) {
	if len(f) < 5 || len(f) > 6 {
		return models.SheetAttempt{}, errors.New("ATTEMPT needs participant, lift, number, weight and an optional result")
	}
	a := models.SheetAttempt{Participant: f[1]}
	if a.Participant == "" {
		return a, errors.New("missing participant")
	}
	lift, err := models.ParseLift(f[2])
	if err != nil {
		return a, err
	}
	a.Lift = lift

	n, err := strconv.Atoi(f[3])
	if err != nil || n < 1 || n > models.AttemptsPerLift {
		return a, fmt.Errorf("attempt number %q must be 1 to %d", f[3], models.AttemptsPerLift)
	}
	a.Number = n

	if a.Weight, err = parseWeight(f[4]); err != nil {
		return a, err
	}
	if err := models.CheckWeights(a.Weight); err != nil {
		return a, err
	}

	if len(f) == 6 {
		if a.Result, err = models.ParseResult(f[5]); err != nil {
			return a, err
		}
	} else {
		a.Result = models.ResultPending
	}
	return a, nil
}

// parseWeight accepts "102.5", "102,5" and a trailing "kg".
func parseWeight(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "kg"))
	s = strings.ReplaceAll(s, ",", ".")
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid weight %q", s)
	}
	return w, nil
}
