package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type stubSource struct {
	products []domain.Product
	err      error
}

func (s *stubSource) Products(_ context.Context) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *stubSource) Product(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			clone := p
			return &clone, nil
		}
	}
	return nil, &domain.APIError{StatusCode: 404, Message: "Produit non trouvé"}
}

var testImages = ImageResolver{Origin: "https://api.example.com", Placeholder: "https://img.example.com/none.png"}

func TestImageResolver(t *testing.T) {
	cases := map[string]string{
		"https://cdn.example.com/a.jpg": "https://cdn.example.com/a.jpg",
		"http://cdn.example.com/b.jpg":  "http://cdn.example.com/b.jpg",
		"/uploads/c.jpg":                "https://api.example.com/uploads/c.jpg",
		"uploads/d.jpg":                 "https://api.example.com/uploads/d.jpg",
		"":                              testImages.Placeholder,
		"   ":                           testImages.Placeholder,
		"http://":                       testImages.Placeholder,
	}
	for in, want := range cases {
		if got := testImages.Resolve(in); got != want {
			t.Fatalf("Resolve(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestList_ResolvesImages(t *testing.T) {
	src := &stubSource{products: []domain.Product{
		{ID: "p1", Name: "Mug", Price: decimal.RequireFromString("9.99"), Image: "/uploads/mug.jpg"},
		{ID: "p2", Name: "Tee", Price: decimal.RequireFromString("19.90"), Image: ""},
	}}
	svc := New(src, testImages, nil)
	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 products, got %d", len(list))
	}
	if list[0].ImageURL != "https://api.example.com/uploads/mug.jpg" {
		t.Fatalf("unexpected image url %q", list[0].ImageURL)
	}
	if list[1].ImageURL != testImages.Placeholder {
		t.Fatalf("expected placeholder, got %q", list[1].ImageURL)
	}
}

func TestFeatured_FirstThree(t *testing.T) {
	src := &stubSource{}
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		src.products = append(src.products, domain.Product{ID: id})
	}
	svc := New(src, testImages, nil)
	got, err := svc.Featured(context.Background(), FeaturedCount)
	if err != nil {
		t.Fatalf("Featured: %v", err)
	}
	if len(got) != 3 || got[0].ID != "a" || got[2].ID != "c" {
		t.Fatalf("unexpected featured %+v", got)
	}

	src.products = src.products[:2]
	got, _ = svc.Featured(context.Background(), FeaturedCount)
	if len(got) != 2 {
		t.Fatalf("expected short catalog returned whole, got %d", len(got))
	}
}

func TestList_PropagatesError(t *testing.T) {
	svc := New(&stubSource{err: domain.ErrInvalidPayload}, testImages, nil)
	if _, err := svc.List(context.Background()); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload error, got %v", err)
	}
}

func TestGet(t *testing.T) {
	src := &stubSource{products: []domain.Product{{ID: "p1", Image: "https://cdn.example.com/p1.jpg"}}}
	svc := New(src, testImages, nil)

	p, err := svc.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.ImageURL != "https://cdn.example.com/p1.jpg" {
		t.Fatalf("unexpected image url %q", p.ImageURL)
	}

	_, err = svc.Get(context.Background(), "missing")
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 {
		t.Fatalf("expected 404 api error, got %v", err)
	}

	_, err = svc.Get(context.Background(), " ")
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
