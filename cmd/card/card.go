package card

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/operator-framework/rostersat/pkg/sat"
)

// Line is a single cardinality constraint of a Card problem. Variables
// are numbered from 1.
type Line struct {
	Vars     []int
	Relation sat.Relation
	Bound    int
}

// Card holds a problem given in the line based cardinality format:
//
//	c comment
//	p card <variables> <constraints>
//	<v1> <v2> ... <relation> <bound>
type Card struct {
	variables int
	lines     []Line
}

func (c *Card) Variables() int {
	return c.variables
}

func (c *Card) Lines() []Line {
	return c.lines
}

// NewCard parses the cardinality formatted stream afforded by cardReader.
func NewCard(cardReader io.Reader) (*Card, error) {
	reader := bufio.NewReader(cardReader)

	numVariables := 0
	numLines := 0
	var lines []Line

	commentLine := regexp.MustCompile(`^c(\s.*)?$`)
	headerLine := regexp.MustCompile(`^p\s+card\s+\d+\s+\d+$`)
	constraintLine := regexp.MustCompile(`^(\d+\s+)+(==|=|<=|>=)\s+\d+$`)
	cleanInput := regexp.MustCompile(`\s+`)

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("error reading card data: %w", err)
		}
		eof := err != nil
		line = strings.TrimSpace(line)

		switch {
		case line == "" || commentLine.MatchString(line):
		case headerLine.MatchString(line):
			if lines != nil {
				return nil, fmt.Errorf("duplicate header (%s)", line)
			}
			problem := strings.Split(cleanInput.ReplaceAllString(line, " "), " ")
			if numVariables, err = strconv.Atoi(problem[2]); err != nil {
				return nil, fmt.Errorf("invalid number (%s) in statement (%s)", problem[2], line)
			}
			if numLines, err = strconv.Atoi(problem[3]); err != nil {
				return nil, fmt.Errorf("invalid number (%s) in statement (%s)", problem[3], line)
			}
			lines = make([]Line, 0, numLines)
		case constraintLine.MatchString(line):
			if lines == nil {
				return nil, fmt.Errorf("invalid card format: missing header 'p card <variables> <constraints>'")
			}
			l, err := parseLine(strings.Split(cleanInput.ReplaceAllString(line, " "), " "), numVariables)
			if err != nil {
				return nil, fmt.Errorf("invalid constraint (%s): %w", line, err)
			}
			lines = append(lines, l)
		default:
			return nil, fmt.Errorf("invalid card statement: %s", line)
		}

		if eof {
			break
		}
	}

	if lines == nil {
		return nil, fmt.Errorf("invalid card format: missing header 'p card <variables> <constraints>'")
	}
	if len(lines) != numLines {
		return nil, fmt.Errorf("invalid format: header declares %d constraints, found %d", numLines, len(lines))
	}
	return &Card{
		variables: numVariables,
		lines:     lines,
	}, nil
}

func parseLine(fields []string, numVariables int) (Line, error) {
	n := len(fields)
	rel, err := sat.ParseRelation(fields[n-2])
	if err != nil {
		return Line{}, err
	}
	bound, err := strconv.Atoi(fields[n-1])
	if err != nil {
		return Line{}, fmt.Errorf("%s is not a number", fields[n-1])
	}
	vars := make([]int, 0, n-2)
	for _, f := range fields[:n-2] {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Line{}, fmt.Errorf("%s is not a number", f)
		}
		if v < 1 || v > numVariables {
			return Line{}, fmt.Errorf("%s is not a valid variable", f)
		}
		vars = append(vars, v)
	}
	return Line{Vars: vars, Relation: rel, Bound: bound}, nil
}

// Model creates a variable named after its number for every variable of
// c and posts its constraints.
func (c *Card) Model() (*sat.Model, error) {
	m := sat.NewModel()
	vs := make([]sat.Var, c.variables)
	for i := range vs {
		vs[i] = m.NewBoolVar(strconv.Itoa(i + 1))
	}
	for i, l := range c.lines {
		scope := make([]sat.Var, len(l.Vars))
		for j, v := range l.Vars {
			scope[j] = vs[v-1]
		}
		if _, err := m.Post(scope, l.Relation, l.Bound); err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i+1, err)
		}
	}
	return m, nil
}
