package usecase

import (
	"github.com/wathbahs/muraji/pkg/domain/interfaces"
	"github.com/wathbahs/muraji/pkg/repository/memory"
	"github.com/wathbahs/muraji/pkg/service/analyzer"
	"github.com/wathbahs/muraji/pkg/service/catalog"
	"github.com/wathbahs/muraji/pkg/service/contextcache"
	"github.com/wathbahs/muraji/pkg/service/registry"
)

type UseCases struct {
	repository interfaces.Repository
	llm        interfaces.LanguageModel
	docStore   interfaces.DocumentStore

	registry *registry.Registry
	cache    *contextcache.Service
	analyzer *analyzer.Service
	catalog  *catalog.Catalog
}

type Option func(*UseCases)

func WithRepository(repo interfaces.Repository) Option {
	return func(u *UseCases) {
		u.repository = repo
	}
}

func WithLanguageModel(llm interfaces.LanguageModel) Option {
	return func(u *UseCases) {
		u.llm = llm
	}
}

func WithDocumentStore(store interfaces.DocumentStore) Option {
	return func(u *UseCases) {
		u.docStore = store
	}
}

func WithAnalyzer(svc *analyzer.Service) Option {
	return func(u *UseCases) {
		u.analyzer = svc
	}
}

func WithCatalog(cat *catalog.Catalog) Option {
	return func(u *UseCases) {
		u.catalog = cat
	}
}

func New(opts ...Option) *UseCases {
	u := &UseCases{
		repository: memory.New(),
		registry:   registry.New(),
		catalog:    &catalog.Catalog{},
	}
	for _, opt := range opts {
		opt(u)
	}

	if u.llm != nil {
		u.cache = contextcache.New(u.llm)
		if u.analyzer == nil {
			u.analyzer = analyzer.New(u.llm)
		}
	}

	return u
}
