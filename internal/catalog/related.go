package catalog

import "github.com/iselbouch1/bouchauto-showcase/internal/models"

// Related picks up to limit visible suggestions for product out of candidates: the
// explicitly linked products first, in the order they are listed, then products sharing
// at least one category, in candidate order.
func Related(product models.Product, candidates []models.Product, limit int) []models.Product {
	related := []models.Product{}
	if limit <= 0 {
		return related
	}

	eligible := func(p models.Product) bool {
		return p.ID != product.ID && p.IsVisible
	}

	seen := map[string]bool{}
	byID := make(map[string]models.Product, len(candidates))
	for _, p := range candidates {
		byID[p.ID] = p
	}

	for _, id := range product.RelatedProductIDs {
		p, ok := byID[id]
		if !ok || seen[id] || !eligible(p) {
			continue
		}
		seen[id] = true
		related = append(related, p)
		if len(related) == limit {
			return related
		}
	}

	for _, p := range candidates {
		if seen[p.ID] || !eligible(p) || !sharesCategory(product, p) {
			continue
		}
		seen[p.ID] = true
		related = append(related, p)
		if len(related) == limit {
			break
		}
	}
	return related
}

func sharesCategory(a, b models.Product) bool {
	for _, id := range b.CategoryIDs {
		if a.InCategory(id) {
			return true
		}
	}
	return false
}

// TagFacets lists the distinct tags of products, in first-seen order, with the number of
// products carrying each one.
func TagFacets(products []models.Product) []models.TagFacet {
	facets := []models.TagFacet{}
	index := map[string]int{}
	for _, p := range products {
		counted := map[string]bool{}
		for _, tag := range p.Tags {
			if counted[tag] {
				continue
			}
			counted[tag] = true
			i, ok := index[tag]
			if !ok {
				index[tag] = len(facets)
				facets = append(facets, models.TagFacet{Label: tag, Value: tag, Count: 1})
				continue
			}
			facets[i].Count++
		}
	}
	return facets
}
