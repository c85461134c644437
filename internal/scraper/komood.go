package scraper

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	komoodBase       = "https://www.komood.store"
	komoodCollection = komoodBase + "/collections/t-shirt-kollektion"
	komoodPageLimit  = 50
)

// Komood reads the Komood Store t-shirt collection through Shopify's
// products.json API. Products can reappear in arbitrary order (e.g. when
// a sold-out shirt comes back), so discovery scans every page and skips
// known IDs instead of stopping. There is no cap on the stored list.
type Komood struct {
	base   string
	client *resty.Client
	now    func() time.Time
}

func NewKomood() *Komood {
	return &Komood{base: komoodBase, client: newHTTPClient(), now: time.Now}
}

func (k *Komood) Name() string { return "komood" }

func (k *Komood) Feed() FeedInfo {
	return FeedInfo{
		Title:       "Komood Shirts",
		Link:        komoodCollection,
		Description: "Neue T-Shirts von Komood Store",
		Language:    "de",
		TTL:         120,
		Icon:        "https://raw.githubusercontent.com/bennokress/rss-feeds/main/Komood%20Store/channel-icon.png",
	}
}

func (k *Komood) Policy() Policy { return SkipKnown }
func (k *Komood) MaxItems() int  { return 0 }

func (k *Komood) Schema() Schema {
	return Schema{
		{"ID", func(it *Item) string { return it.ID }, func(it *Item, v string) { it.ID = v }},
		{"Title", func(it *Item) string { return it.Title }, func(it *Item, v string) { it.Title = v }},
		{"Description", func(it *Item) string { return it.Description }, func(it *Item, v string) { it.Description = v }},
		{"URL", func(it *Item) string { return it.URL }, func(it *Item, v string) { it.URL = v }},
		{"Image", func(it *Item) string { return it.Image }, func(it *Item, v string) { it.Image = v }},
		{"Timestamp", func(it *Item) string { return it.Timestamp }, func(it *Item, v string) { it.Timestamp = v }},
	}
}

func (k *Komood) Complete(it Item) bool    { return it.Description != "" }
func (k *Komood) EntryLink(it Item) string { return it.URL }

// shopifyPrice tolerates Shopify returning prices as "25.00" or 25.
type shopifyPrice string

func (p *shopifyPrice) UnmarshalJSON(b []byte) error {
	*p = shopifyPrice(strings.Trim(string(b), `"`))
	return nil
}

type shopifyProduct struct {
	Handle   string `json:"handle"`
	Title    string `json:"title"`
	BodyHTML string `json:"body_html"`
	Variants []struct {
		Price shopifyPrice `json:"price"`
	} `json:"variants"`
	Images []struct {
		Src string `json:"src"`
	} `json:"images"`
}

type shopifyPage struct {
	Products []shopifyProduct `json:"products"`
}

func (k *Komood) DiscoverNew(known map[string]struct{}, maxNew int) ([]Item, error) {
	var items []Item
	seen := make(map[string]struct{})
	now := k.now().In(locBerlin).Format(time.RFC3339)

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/collections/t-shirt-kollektion/products.json?page=%d&limit=250", k.base, page)
		log.Printf("komood: fetching products page %d...", page)

		var data shopifyPage
		resp, err := k.client.R().SetResult(&data).Get(url)
		if err != nil {
			return nil, fmt.Errorf("komood: fetch page %d: %w", page, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("komood: fetch page %d: status %d", page, resp.StatusCode())
		}

		if len(data.Products) == 0 {
			log.Printf("komood: page %d is empty, stopping pagination", page)
			break
		}

		for _, prod := range data.Products {
			id := cleanProductID(prod.Handle)
			title := cleanProductTitle(prod.Title)
			if id == "" || title == "" {
				continue
			}
			if _, ok := known[id]; ok {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}

			image := ""
			if len(prod.Images) > 0 {
				image = prod.Images[0].Src
			}

			items = append(items, Item{
				ID:          id,
				Title:       title,
				Description: komoodDescription(prod),
				// The shop URL keeps the original handle, sale prefix included.
				URL:       k.base + "/products/" + prod.Handle,
				Image:     image,
				Timestamp: now,
			})
			log.Printf("komood: found new product: %s (id: %s)", title, id)

			if maxNew > 0 && len(items) >= maxNew {
				return items, nil
			}
		}

		if page >= komoodPageLimit {
			log.Println("komood: reached page limit, stopping")
			break
		}
	}
	return items, nil
}

// FetchDetails re-reads a single product for records that were stored
// before their description could be built.
func (k *Komood) FetchDetails(it Item) (Details, error) {
	_, handle, ok := strings.Cut(it.URL, "/products/")
	if !ok || handle == "" {
		return Details{}, fmt.Errorf("komood: no product handle in %q", it.URL)
	}

	var data struct {
		Product shopifyProduct `json:"product"`
	}
	resp, err := k.client.R().SetResult(&data).Get(k.base + "/products/" + handle + ".json")
	if err != nil {
		return Details{}, fmt.Errorf("komood: fetch product %s: %w", handle, err)
	}
	if resp.IsError() {
		return Details{}, fmt.Errorf("komood: fetch product %s: status %d", handle, resp.StatusCode())
	}

	image := ""
	if len(data.Product.Images) > 0 {
		image = data.Product.Images[0].Src
	}
	return Details{Description: komoodDescription(data.Product), Image: image}, nil
}

// cleanProductID normalizes a Shopify handle into the dedup key: the
// sale prefix and product-type suffix are transient decoration, the same
// shirt must never show up under a second ID.
func cleanProductID(handle string) string {
	id := strings.TrimPrefix(handle, "ausverkauft-")
	id = strings.TrimSuffix(id, "-t-shirt")
	return id
}

func cleanProductTitle(title string) string {
	title = strings.TrimPrefix(title, "AUSVERKAUFT: ")
	title = strings.TrimSuffix(title, " - T-Shirt")
	title = strings.TrimSuffix(title, " - T-shirt")
	return title
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

// komoodDescription joins the formatted price and the tag-stripped body
// text, whichever of the two exist.
func komoodDescription(prod shopifyProduct) string {
	price := ""
	if len(prod.Variants) > 0 {
		price = formatEuro(string(prod.Variants[0].Price))
	}

	text := tagRe.ReplaceAllString(prod.BodyHTML, "")
	text = strings.Join(strings.Fields(text), " ")

	switch {
	case price != "" && text != "":
		return price + " • " + text
	case price != "":
		return price
	default:
		return text
	}
}

// formatEuro renders a Shopify price ("25.00") as "€25,00".
func formatEuro(price string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil || f <= 0 {
		return ""
	}
	cents := int(f*100 + 0.5)
	return fmt.Sprintf("€%d,%02d", cents/100, cents%100)
}
