// Package query builds the relevance query from a persona and an objective.
package query

import (
	"errors"
	"strings"

	"github.com/dgallion1/docsift/internal/keyword"
)

// ErrEmptyObjective is returned when the objective has no text.
var ErrEmptyObjective = errors.New("objective is required")

// CustomPersona is used when no persona is given.
const CustomPersona = "Custom User"

// Persona is one of the built-in roles.
type Persona struct {
	Name             string   `json:"name"`
	Vocabulary       []string `json:"vocabulary"`
	ExampleObjective string   `json:"example_objective"`
}

// Personas lists the built-in roles in display order.
var Personas = []Persona{
	{
		Name:             "Travel Planner",
		Vocabulary:       []string{"travel", "trip", "destination", "hotel", "restaurant", "activity", "tour", "visit", "explore"},
		ExampleObjective: "Plan a 4-day trip for a group of 10 college friends",
	},
	{
		Name:             "Business Analyst",
		Vocabulary:       []string{"business", "market", "analysis", "data", "revenue", "strategy", "competitive", "trend"},
		ExampleObjective: "Analyze market trends and competitive positioning",
	},
	{
		Name:             "Research Scientist",
		Vocabulary:       []string{"research", "study", "method", "data", "analysis", "findings", "experiment", "results"},
		ExampleObjective: "Summarize methods and key findings across the studies",
	},
	{
		Name:             "Marketing Manager",
		Vocabulary:       []string{"marketing", "campaign", "audience", "brand", "promotion", "advertising", "customer"},
		ExampleObjective: "Identify target audiences and campaign ideas",
	},
	{
		Name:             "Project Manager",
		Vocabulary:       []string{"project", "timeline", "requirements", "deliverable", "milestone", "resource", "planning"},
		ExampleObjective: "Extract requirements, milestones and deliverables",
	},
}

// Lookup finds a built-in persona by name, ignoring case.
func Lookup(name string) (Persona, bool) {
	for _, p := range Personas {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Persona{}, false
}

// Description is the text that stands for a persona in the query document.
// Custom personas are described by their own name.
func Description(name string) string {
	if p, ok := Lookup(name); ok {
		return p.Name + " " + strings.Join(p.Vocabulary, " ")
	}
	return name
}

// Query is the persona and objective a run is scored against.
type Query struct {
	Persona   string
	Objective string
	Keywords  []string
}

// New validates the inputs and derives keywords from the objective.
func New(persona, objective string, s keyword.Strategy) (Query, error) {
	objective = strings.TrimSpace(objective)
	if objective == "" {
		return Query{}, ErrEmptyObjective
	}
	persona = strings.TrimSpace(persona)
	if p, ok := Lookup(persona); ok {
		persona = p.Name
	}
	if persona == "" {
		persona = CustomPersona
	}
	return Query{
		Persona:   persona,
		Objective: objective,
		Keywords:  keyword.Keywords(s, objective),
	}, nil
}

// Document is the synthetic query document placed in the term space.
func (q Query) Document() string {
	return Description(q.Persona) + " " + q.Objective
}
