package crawl

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/siteshape"
)

// ClusterResult is the outcome of clustering a URL list.
type ClusterResult struct {
	Templates []*siteshape.TemplateGroup
	Errors    []string
}

// Clusterer fetches pages and groups them by template signature.
type Clusterer struct {
	Fetcher     siteshape.Fetcher
	Fallback    siteshape.ContentFallback
	Signatures  siteshape.SignatureBuilder
	RateLimiter siteshape.DomainLimiter

	// Concurrency is the number of pages fetched at once.
	// Zero or one fetches strictly sequentially.
	Concurrency int
}

// pageOutcome is the per-URL result of a clustering fetch.
type pageOutcome struct {
	signature string
	failure   string
	ok        bool
}

// Cluster fetches every URL and groups the pages that loaded by signature.
// Pages that fail to load are reported in Errors and left out of every
// group. Output order follows input order regardless of Concurrency.
func (c *Clusterer) Cluster(ctx context.Context, urls []string, maxDepth int) (*ClusterResult, error) {
	loader := &pageLoader{fetcher: c.Fetcher, fallback: c.Fallback, limiter: c.RateLimiter}
	outcomes := make([]pageOutcome, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Concurrency, 1))
	for i, u := range urls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			visit := loader.load(gctx, u)
			if visit.state == stateExcluded {
				outcomes[i] = pageOutcome{failure: visit.failure()}
				return nil
			}
			outcomes[i] = pageOutcome{
				signature: c.Signatures.Signature(visit.html, maxDepth),
				ok:        true,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("clustering: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages := make([]siteshape.PageSignature, 0, len(urls))
	var errs []string
	for i, o := range outcomes {
		if !o.ok {
			errs = append(errs, o.failure)
			continue
		}
		pages = append(pages, siteshape.PageSignature{URL: urls[i], Signature: o.signature})
	}

	return &ClusterResult{
		Templates: GroupBySignature(pages),
		Errors:    errs,
	}, nil
}

// GroupBySignature groups pages with byte-identical signatures. Groups are
// numbered template_1, template_2, ... in order of first appearance and list
// their URLs in input order. An empty signature forms the "(empty)" group.
func GroupBySignature(pages []siteshape.PageSignature) []*siteshape.TemplateGroup {
	var groups []*siteshape.TemplateGroup
	index := make(map[uint64][]*siteshape.TemplateGroup)

	for _, p := range pages {
		sig := p.Signature
		if sig == "" {
			sig = siteshape.EmptySignature
		}

		h := xxhash.Sum64String(sig)
		var group *siteshape.TemplateGroup
		for _, g := range index[h] {
			if g.Signature == sig {
				group = g
				break
			}
		}
		if group == nil {
			group = &siteshape.TemplateGroup{
				TemplateID:       fmt.Sprintf("template_%d", len(groups)+1),
				SignaturePreview: siteshape.SignaturePreview(sig),
				Signature:        sig,
				URLs:             []string{},
			}
			groups = append(groups, group)
			index[h] = append(index[h], group)
		}
		group.URLs = append(group.URLs, p.URL)
		group.PageCount = len(group.URLs)
	}

	if groups == nil {
		groups = []*siteshape.TemplateGroup{}
	}
	return groups
}
