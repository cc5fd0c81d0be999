package repository

import "github.com/doug-martin/goqu/v9"

type QueryBuilder interface {
	AddCondition(key string, value interface{}) QueryBuilder
	HasConditions() bool
	BuildConditions(aliases map[string]string) goqu.Ex
}

type queryBuilderImpl struct {
	conditions map[string]interface{}
}

func NewQueryBuilder() QueryBuilder {
	return &queryBuilderImpl{
		conditions: make(map[string]interface{}),
	}
}

// AddCondition ignores empty strings and nil values so optional filters can
// be passed straight from query params.
func (q *queryBuilderImpl) AddCondition(key string, value interface{}) QueryBuilder {
	switch v := value.(type) {
	case nil:
		return q
	case string:
		if v == "" {
			return q
		}
	case *int:
		if v == nil {
			return q
		}
		value = *v
	}
	q.conditions[key] = value
	return q
}

func (q *queryBuilderImpl) HasConditions() bool {
	return len(q.conditions) > 0
}

func (q *queryBuilderImpl) BuildConditions(aliases map[string]string) goqu.Ex {
	conditions := goqu.Ex{}
	for key, value := range q.conditions {
		if alias, ok := aliases[key]; ok {
			conditions[alias] = value
		} else {
			conditions[key] = value
		}
	}
	return conditions
}
