package memory

import (
	"context"
	"time"

	"mochi-games/internal/app"
	"mochi-games/internal/domain"
)

// StaticCatalog is the built-in catalog; fetches resolve after a simulated delay.
type StaticCatalog struct {
	categories []domain.Category
	questions  map[string][]domain.Question
	clock      app.Clock
	delay      time.Duration
}

func NewStaticCatalog(categories []domain.Category, questions map[string][]domain.Question) *StaticCatalog {
	return &StaticCatalog{categories: categories, questions: questions, clock: app.SystemClock{}}
}

// NewBuiltinCatalog serves the six starter categories.
func NewBuiltinCatalog(clock app.Clock, delay time.Duration) *StaticCatalog {
	c := NewStaticCatalog(BuiltinCategories(), BuiltinQuestions())
	if clock != nil {
		c.clock = clock
	}
	c.delay = delay
	return c
}

func (c *StaticCatalog) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	if err := app.Wait(ctx, c.clock, c.delay); err != nil {
		return nil, err
	}
	out := make([]domain.Category, len(c.categories))
	copy(out, c.categories)
	return out, nil
}

// LoadQuestions returns an empty list for unknown categories.
func (c *StaticCatalog) LoadQuestions(ctx context.Context, categoryID string) ([]domain.Question, error) {
	if err := app.Wait(ctx, c.clock, c.delay); err != nil {
		return nil, err
	}
	qs := c.questions[categoryID]
	out := make([]domain.Question, len(qs))
	copy(out, qs)
	return out, nil
}

const unsplash = "https://images.unsplash.com/"

func BuiltinCategories() []domain.Category {
	return []domain.Category{
		{ID: "1", Name: "Fruits", Description: "Learn fruits using games", IconURL: unsplash + "photo-1619566636858-adf3ef46400b?w=400&h=300&fit=crop", Color: "bg-red-100"},
		{ID: "2", Name: "Numbers", Description: "Count and learn numbers", IconURL: unsplash + "photo-1509228468518-180dd4864904?w=400&h=300&fit=crop", Color: "bg-blue-100"},
		{ID: "3", Name: "Shapes", Description: "Identify different shapes", IconURL: unsplash + "photo-1558618666-fcd25c85cd64?w=400&h=300&fit=crop", Color: "bg-purple-100"},
		{ID: "4", Name: "Animals", Description: "Meet friendly animals", IconURL: unsplash + "photo-1474511320723-9a56873571b7?w=400&h=300&fit=crop", Color: "bg-green-100"},
		{ID: "5", Name: "Colours", Description: "Explore rainbow colours", IconURL: unsplash + "photo-1502691876148-a84978e59af8?w=400&h=300&fit=crop", Color: "bg-yellow-100"},
		{ID: "6", Name: "Vegetables", Description: "Healthy veggies fun", IconURL: unsplash + "photo-1540420773420-3366772f4999?w=400&h=300&fit=crop", Color: "bg-orange-100"},
	}
}

func img(photo string) string {
	return unsplash + photo + "?w=300&h=300&fit=crop"
}

func question(id int, categoryID, target string, labels [3]string, photos [3]string) domain.Question {
	q := domain.Question{ID: id, CategoryID: categoryID, TargetItem: target, CorrectAnswer: target}
	for i := range labels {
		q.Options = append(q.Options, domain.Option{ID: i + 1, Label: labels[i], ImageURL: img(photos[i])})
	}
	return q
}

func BuiltinQuestions() map[string][]domain.Question {
	const (
		apple      = "photo-1560806887-1e4cd0b6cbd6"
		banana     = "photo-1571771894821-ce9b6c11b08e"
		grapes     = "photo-1537640538966-79f369143f8f"
		orange     = "photo-1547514701-42782101795e"
		strawberry = "photo-1464965911861-746a04b4bca6"
		number     = "photo-1611532736597-de2d4265fba3"
		shape      = "photo-1558618666-fcd25c85cd64"
		colour     = "photo-1502691876148-a84978e59af8"
	)
	return map[string][]domain.Question{
		"1": {
			question(1, "1", "Apple", [3]string{"Apple", "Banana", "Grapes"}, [3]string{apple, banana, grapes}),
			question(2, "1", "Banana", [3]string{"Orange", "Banana", "Strawberry"}, [3]string{orange, banana, strawberry}),
			question(3, "1", "Orange", [3]string{"Apple", "Orange", "Grapes"}, [3]string{apple, orange, grapes}),
		},
		"2": {
			question(4, "2", "Three", [3]string{"One", "Three", "Five"}, [3]string{number, number, number}),
		},
		"3": {
			question(5, "3", "Circle", [3]string{"Circle", "Square", "Triangle"}, [3]string{shape, shape, shape}),
		},
		"4": {
			question(6, "4", "Dog", [3]string{"Cat", "Dog", "Bird"},
				[3]string{"photo-1514888286974-6c03e2ca1dba", "photo-1587300003388-59208cc962cb", "photo-1444464666168-49d633b86797"}),
		},
		"5": {
			question(7, "5", "Red", [3]string{"Blue", "Red", "Green"}, [3]string{colour, colour, colour}),
		},
		"6": {
			question(8, "6", "Carrot", [3]string{"Carrot", "Broccoli", "Tomato"},
				[3]string{"photo-1598170845058-32b9d6a5da37", "photo-1459411552884-841db9b3cc2a", "photo-1546470427-227c7369a9b9"}),
		},
	}
}
