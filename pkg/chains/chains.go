// Package chains holds the static network and token reference tables the
// payroll engine routes against. The data is read-only at runtime.
package chains

import "github.com/shopspring/decimal"

// Chain describes one supported destination network.
type Chain struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	NativeCurrency string `json:"native_currency"`
	ExplorerURL    string `json:"explorer_url"`
	Color          string `json:"color"`
}

// Token describes one supported asset and its per-chain contract addresses.
type Token struct {
	Symbol      string           `json:"symbol"`
	Name        string           `json:"name"`
	Decimals    int32            `json:"decimals"`
	Addresses   map[int64]string `json:"addresses"`
	CoingeckoID string           `json:"coingecko_id"`
	Color       string           `json:"color"`
}

// DefaultAllocation is the system-wide fallback applied to employees with no
// declared allocations: 100% USDC on Solana.
type DefaultAllocationSpec struct {
	TokenSymbol  string
	TokenAddress string
	ChainID      int64
	ChainName    string
	Percentage   decimal.Decimal
}

// NativeAddress is the pseudo-address the quote provider uses for native assets.
const NativeAddress = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

const (
	EthereumID  int64 = 1
	OptimismID  int64 = 10
	BNBChainID  int64 = 56
	PolygonID   int64 = 137
	BaseID      int64 = 8453
	ArbitrumID  int64 = 42161
	AvalancheID int64 = 43114
	SolanaID    int64 = 792703809
)

var Chains = []Chain{
	{ID: EthereumID, Name: "Ethereum", Slug: "ethereum", NativeCurrency: "ETH", ExplorerURL: "https://etherscan.io", Color: "#627EEA"},
	{ID: BaseID, Name: "Base", Slug: "base", NativeCurrency: "ETH", ExplorerURL: "https://basescan.org", Color: "#0052FF"},
	{ID: OptimismID, Name: "Optimism", Slug: "optimism", NativeCurrency: "ETH", ExplorerURL: "https://optimistic.etherscan.io", Color: "#FF0420"},
	{ID: ArbitrumID, Name: "Arbitrum", Slug: "arbitrum", NativeCurrency: "ETH", ExplorerURL: "https://arbiscan.io", Color: "#28A0F0"},
	{ID: PolygonID, Name: "Polygon", Slug: "polygon", NativeCurrency: "MATIC", ExplorerURL: "https://polygonscan.com", Color: "#8247E5"},
	{ID: SolanaID, Name: "Solana", Slug: "solana", NativeCurrency: "SOL", ExplorerURL: "https://solscan.io", Color: "#9945FF"},
	{ID: BNBChainID, Name: "BNB Chain", Slug: "bnb", NativeCurrency: "BNB", ExplorerURL: "https://bscscan.com", Color: "#F3BA2F"},
	{ID: AvalancheID, Name: "Avalanche", Slug: "avalanche", NativeCurrency: "AVAX", ExplorerURL: "https://snowtrace.io", Color: "#E84142"},
}

var Tokens = []Token{
	{
		Symbol: "USDC", Name: "USD Coin", Decimals: 6,
		Addresses: map[int64]string{
			EthereumID:  "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
			BaseID:      "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913",
			OptimismID:  "0x0b2c639c533813f4aa9d7837caf62653d097ff85",
			ArbitrumID:  "0xaf88d065e77c8cc2239327c5edb3a432268e5831",
			PolygonID:   "0x3c499c542cef5e3811e1192ce70d8cc03d5c3359",
			SolanaID:    "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
			BNBChainID:  "0x8ac76a51cc950d9822d68b83fe1ad97b32cd580d",
			AvalancheID: "0xb97ef9ef8734c71904d8002f8b6bc66dd9c48a6e",
		},
		CoingeckoID: "usd-coin", Color: "#2775CA",
	},
	{
		Symbol: "ETH", Name: "Ethereum", Decimals: 18,
		Addresses: map[int64]string{
			EthereumID: NativeAddress,
			BaseID:     NativeAddress,
			OptimismID: NativeAddress,
			ArbitrumID: NativeAddress,
		},
		CoingeckoID: "ethereum", Color: "#627EEA",
	},
	{
		Symbol: "WBTC", Name: "Wrapped Bitcoin", Decimals: 8,
		Addresses: map[int64]string{
			EthereumID: "0x2260fac5e5542a773aa44fbcfedf7c193bc2c599",
			BaseID:     "0x0555e30da8f98308edb960aa94c0db47230d2b9c",
			OptimismID: "0x68f180fcce6836688e9084f035309e29bf0a2095",
			ArbitrumID: "0x2f2a2543b76a4166549f7aab2e75bef0aefc5b0f",
			PolygonID:  "0x1bfd67037b42cf73acf2047067bd4f2c47d9bfd6",
		},
		CoingeckoID: "wrapped-bitcoin", Color: "#F7931A",
	},
	{
		Symbol: "SOL", Name: "Solana", Decimals: 9,
		Addresses: map[int64]string{
			SolanaID: "So11111111111111111111111111111111111111112",
		},
		CoingeckoID: "solana", Color: "#9945FF",
	},
	{
		Symbol: "MATIC", Name: "Polygon", Decimals: 18,
		Addresses: map[int64]string{
			PolygonID:  NativeAddress,
			EthereumID: "0x7d1afa7b718fb893db30a3abc0cfc608aacfebb0",
		},
		CoingeckoID: "matic-network", Color: "#8247E5",
	},
	{
		Symbol: "ARB", Name: "Arbitrum", Decimals: 18,
		Addresses: map[int64]string{
			ArbitrumID: "0x912ce59144191c1204e64559fe8253a0e49e6548",
		},
		CoingeckoID: "arbitrum", Color: "#28A0F0",
	},
	{
		Symbol: "OP", Name: "Optimism", Decimals: 18,
		Addresses: map[int64]string{
			OptimismID: "0x4200000000000000000000000000000000000042",
		},
		CoingeckoID: "optimism", Color: "#FF0420",
	},
	{
		Symbol: "AVAX", Name: "Avalanche", Decimals: 18,
		Addresses: map[int64]string{
			AvalancheID: NativeAddress,
		},
		CoingeckoID: "avalanche-2", Color: "#E84142",
	},
	{
		Symbol: "BNB", Name: "BNB", Decimals: 18,
		Addresses: map[int64]string{
			BNBChainID: NativeAddress,
		},
		CoingeckoID: "binancecoin", Color: "#F3BA2F",
	},
}

var (
	chainsByID   = map[int64]Chain{}
	chainsBySlug = map[string]Chain{}
	tokensBySym  = map[string]Token{}
)

func init() {
	for _, c := range Chains {
		chainsByID[c.ID] = c
		chainsBySlug[c.Slug] = c
	}
	for _, t := range Tokens {
		tokensBySym[t.Symbol] = t
	}
}

// DefaultAllocation returns the synthetic allocation used when an employee has
// no declared allocations.
func DefaultAllocation() DefaultAllocationSpec {
	return DefaultAllocationSpec{
		TokenSymbol:  "USDC",
		TokenAddress: tokensBySym["USDC"].Addresses[SolanaID],
		ChainID:      SolanaID,
		ChainName:    "Solana",
		Percentage:   decimal.NewFromInt(100),
	}
}

// ByID returns the chain config for a given chain id.
func ByID(chainID int64) (Chain, bool) {
	c, ok := chainsByID[chainID]
	return c, ok
}

// BySlug returns the chain config for a slug such as "ethereum" or "base".
func BySlug(slug string) (Chain, bool) {
	c, ok := chainsBySlug[slug]
	return c, ok
}

// TokenBySymbol returns the token config for a symbol.
func TokenBySymbol(symbol string) (Token, bool) {
	t, ok := tokensBySym[symbol]
	return t, ok
}

// TokenAddress returns the contract/mint address for a token on a chain.
func TokenAddress(symbol string, chainID int64) (string, bool) {
	t, ok := tokensBySym[symbol]
	if !ok {
		return "", false
	}
	addr, ok := t.Addresses[chainID]
	return addr, ok
}

// USDCAddress returns the USDC contract for a chain, falling back to the
// Ethereum mainnet contract for unknown chains.
func USDCAddress(chainID int64) string {
	if addr, ok := TokenAddress("USDC", chainID); ok {
		return addr
	}
	return tokensBySym["USDC"].Addresses[EthereumID]
}

// TokensForChain returns every token with a contract on the given chain.
func TokensForChain(chainID int64) []Token {
	var out []Token
	for _, t := range Tokens {
		if _, ok := t.Addresses[chainID]; ok {
			out = append(out, t)
		}
	}
	return out
}
