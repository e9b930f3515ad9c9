// internal/token/pair.go
package token

import (
	"bytes"
	"strconv"
)

// Pair is the DexScreener trading-pair payload for one token.
// Only the fields the screener consumes are mapped.
type Pair struct {
	ChainID     string      `json:"chainId"`
	DexID       string      `json:"dexId"`
	PairAddress string      `json:"pairAddress"`
	BaseToken   *BaseToken  `json:"baseToken"`
	PriceUsd    FlexFloat   `json:"priceUsd"`
	Volume      PairVolume  `json:"volume"`
	PriceChange PriceChange `json:"priceChange"`
	Liquidity   Liquidity   `json:"liquidity"`
	FDV         FlexFloat   `json:"fdv"`
	MarketCap   FlexFloat   `json:"marketCap"`
	Info        *PairInfo   `json:"info"`
}

// BaseToken identifies the traded token inside a pair.
type BaseToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// PairVolume holds trading volume per window; only the 24h window is used.
type PairVolume struct {
	H24 FlexFloat `json:"h24"`
}

// PriceChange holds price change percentages per window.
type PriceChange struct {
	H24 FlexFloat `json:"h24"`
}

// Liquidity is the USD value locked in the pair's pool.
type Liquidity struct {
	USD FlexFloat `json:"usd"`
}

// PairInfo carries the tagged website and social links of a pair.
type PairInfo struct {
	Websites []TaggedLink `json:"websites"`
	Socials  []TaggedLink `json:"socials"`
}

// TaggedLink is one labelled URL from the pair info block.
type TaggedLink struct {
	Label string `json:"label"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

func (i *PairInfo) websiteURLs() []string {
	if i == nil {
		return []string{}
	}
	return flattenURLs(i.Websites)
}

func (i *PairInfo) socialURLs() []string {
	if i == nil {
		return []string{}
	}
	return flattenURLs(i.Socials)
}

func flattenURLs(links []TaggedLink) []string {
	urls := make([]string, 0, len(links))
	for _, link := range links {
		urls = append(urls, link.URL)
	}
	return urls
}

// FlexFloat decodes a JSON number that upstream sometimes serializes as a
// string (priceUsd) and sometimes as a number (volume, fdv). Any value that
// cannot be converted becomes 0.0 instead of failing the decode.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}
