package contentsearch

import (
	"context"
	"strconv"
	"strings"

	bleve "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/altavoz/altavoz-server/database/model"
)

// Search is the Bleve-based catalog index. It is built in memory at
// startup from the content table and queried by the search endpoint.
type Search struct {
	index bleve.Index
}

// document is what we store in Bleve per catalog item.
type document struct {
	// Content ID, also the bleve doc id
	ID string `json:"id"`
	// Title of the item
	Title string `json:"title"`
	// TitleExact is a helper field to make exact title match more accurate
	TitleExact  string `json:"title_exact"`
	Description string `json:"description"`
	MediaType   string `json:"media_type"`
}

// New creates a new in-memory index.
func New() (*Search, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}
	return &Search{
		index: idx,
	}, nil
}

// buildIndexMapping builds the Bleve index field mapping configuration.
func buildIndexMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()

	doc := bleve.NewDocumentMapping()

	// text mapping for title and description
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "standard"
	// Not storing the full text, only indexing; hits only need the doc id.
	textFieldMapping.Store = false
	textFieldMapping.Index = true

	// keyword mapping for exact matches
	keyword := bleve.NewTextFieldMapping()
	keyword.Analyzer = "keyword"
	keyword.Store = true
	keyword.Index = true

	doc.AddFieldMappingsAt("id", keyword)
	doc.AddFieldMappingsAt("title", textFieldMapping)
	doc.AddFieldMappingsAt("title_exact", keyword)
	doc.AddFieldMappingsAt("description", textFieldMapping)
	doc.AddFieldMappingsAt("media_type", keyword)

	m.DefaultMapping = doc
	return m
}

// IndexContent indexes a slice of catalog items in batches.
func (b *Search) IndexContent(ctx context.Context, content []model.Content) error {
	batch := b.index.NewBatch()
	for _, c := range content {
		doc := document{
			ID:          strconv.FormatInt(c.ID, 10),
			Title:       c.Title,
			TitleExact:  strings.ToLower(c.Title),
			Description: c.Description,
			MediaType:   c.MediaType,
		}
		if err := batch.Index(doc.ID, doc); err != nil {
			return err
		}
		// commit in big batches to avoid huge memory usage
		if batch.Size() > 1000 {
			if err := b.index.Batch(batch); err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}
	if batch.Size() > 0 {
		return b.index.Batch(batch)
	}
	return nil
}

// Search runs a fuzzy search over titles and descriptions and returns the
// matched content ids, best score first.
func (b *Search) Search(ctx context.Context, searchTerm string, size int) ([]int64, error) {
	searchTerm = strings.ToLower(strings.TrimSpace(searchTerm))
	if searchTerm == "" {
		return nil, nil
	}

	// Weights for boosting certain query types and fields.
	const (
		boostTitleExact  = 50.0 // strongest: exact match on title_exact field
		boostTitlePhrase = 12.0 // very strong: exact phrase in title
		boostTitlePrefix = 6.0  // strong: prefix on the whole query against title
		boostTitleField  = 3.0  // fuzzy/prefix on title tokens
		boostOtherFields = 1.0  // default for description
	)

	boolQuery := bleve.NewBooleanQuery()

	// Exact-match bubbles exact titles to the top.
	termExact := bleve.NewTermQuery(searchTerm)
	termExact.SetField("title_exact")
	termExact.SetBoost(boostTitleExact)
	boolQuery.AddShould(termExact)

	matchPhrase := bleve.NewMatchPhraseQuery(searchTerm)
	matchPhrase.SetField("title")
	matchPhrase.SetBoost(boostTitlePhrase)
	boolQuery.AddShould(matchPhrase)

	// Prefix on the full query helps when users type the beginning of a
	// title: "tango fa" -> "Tango Fatal".
	prefixFull := bleve.NewPrefixQuery(searchTerm)
	prefixFull.SetField("title")
	prefixFull.SetBoost(boostTitlePrefix)
	boolQuery.AddShould(prefixFull)

	// Token-wise fuzzy + prefix queries across fields.
	for _, tok := range strings.Fields(searchTerm) {
		fuzz := 1
		if len(tok) >= 6 {
			fuzz = 2
		}

		for _, f := range []string{"title", "description"} {
			boost := boostOtherFields
			if f == "title" {
				boost = boostTitleField
			}

			fq := bleve.NewFuzzyQuery(tok)
			fq.SetField(f)
			fq.SetFuzziness(fuzz)
			fq.SetBoost(boost)
			boolQuery.AddShould(fq)

			pq := bleve.NewPrefixQuery(tok)
			pq.SetField(f)
			pq.SetBoost(boost)
			boolQuery.AddShould(pq)
		}
	}

	boolQuery.SetMinShould(1)

	req := bleve.NewSearchRequestOptions(boolQuery, size, 0, false)
	req.Fields = []string{"id"}
	req.SortBy([]string{"-_score"})

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, err
	}

	var foundIDs []int64
	for _, h := range res.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			continue
		}
		foundIDs = append(foundIDs, id)
	}
	return foundIDs, nil
}

// Delete removes a document from the index.
func (b *Search) Delete(ctx context.Context, contentID int64) error {
	return b.index.Delete(strconv.FormatInt(contentID, 10))
}

// Close closes the underlying index.
func (b *Search) Close() error {
	return b.index.Close()
}
