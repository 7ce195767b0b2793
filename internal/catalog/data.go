package catalog

import "CryptoAnalyst/internal/domain/models"

// assetTable is the crypto asset reference database.
var assetTable = []models.Asset{
	// Major cryptocurrencies
	{Ticker: "BTC", Name: "Bitcoin", Aliases: []string{"bitcoin", "btc", "king", "king of crypto"}, Confidence: 0.99},
	{Ticker: "ETH", Name: "Ethereum", Aliases: []string{"ethereum", "eth", "etherium", "smart contract platform"}, Confidence: 0.98},
	{Ticker: "ADA", Name: "Cardano", Aliases: []string{"cardano", "ada"}, Confidence: 0.95},
	{Ticker: "DOT", Name: "Polkadot", Aliases: []string{"polkadot", "dot", "internet of blockchains"}, Confidence: 0.95},
	{Ticker: "LINK", Name: "Chainlink", Aliases: []string{"chainlink", "link", "oracle network"}, Confidence: 0.94},
	{Ticker: "UNI", Name: "Uniswap", Aliases: []string{"uniswap", "uni", "dex token"}, Confidence: 0.93},
	{Ticker: "LTC", Name: "Litecoin", Aliases: []string{"litecoin", "ltc"}, Confidence: 0.92},
	{Ticker: "BCH", Name: "Bitcoin Cash", Aliases: []string{"bitcoin cash", "bch"}, Confidence: 0.91},

	// Layer 1s
	{Ticker: "SOL", Name: "Solana", Aliases: []string{"solana", "sol"}, Confidence: 0.96},
	{Ticker: "MATIC", Name: "Polygon", Aliases: []string{"polygon", "matic"}, Confidence: 0.94},
	{Ticker: "AVAX", Name: "Avalanche", Aliases: []string{"avalanche", "avax"}, Confidence: 0.93},
	{Ticker: "ATOM", Name: "Cosmos", Aliases: []string{"cosmos", "atom"}, Confidence: 0.92},
	{Ticker: "ALGO", Name: "Algorand", Aliases: []string{"algorand", "algo"}, Confidence: 0.90},
	{Ticker: "XLM", Name: "Stellar", Aliases: []string{"stellar", "xlm"}, Confidence: 0.89},
	{Ticker: "VET", Name: "VeChain", Aliases: []string{"vechain", "vet"}, Confidence: 0.88},

	// AI and emerging sectors
	{Ticker: "FET", Name: "Fetch.ai", Aliases: []string{"fetch.ai", "fetch", "fet"}, Confidence: 0.85, Sectors: []string{models.SectorAI}},
	{Ticker: "NEAR", Name: "NEAR Protocol", Aliases: []string{"near protocol", "near"}, Confidence: 0.87, Sectors: []string{models.SectorAI, models.SectorLayer1}},
	{Ticker: "RNDR", Name: "Render", Aliases: []string{"render", "rndr"}, Confidence: 0.86, Sectors: []string{models.SectorAI, models.SectorCompute}},
	{Ticker: "OCEAN", Name: "Ocean Protocol", Aliases: []string{"ocean protocol", "ocean"}, Confidence: 0.84, Sectors: []string{models.SectorAI, models.SectorData}},
	{Ticker: "AGIX", Name: "SingularityNET", Aliases: []string{"singularitynet", "agix"}, Confidence: 0.83, Sectors: []string{models.SectorAI}},

	// DeFi and gaming
	{Ticker: "AAVE", Name: "Aave", Aliases: []string{"aave"}, Confidence: 0.92, Sectors: []string{models.SectorDeFi}},
	{Ticker: "COMP", Name: "Compound", Aliases: []string{"compound", "comp"}, Confidence: 0.91, Sectors: []string{models.SectorDeFi}},
	{Ticker: "SUSHI", Name: "SushiSwap", Aliases: []string{"sushiswap", "sushi"}, Confidence: 0.89, Sectors: []string{models.SectorDeFi}},
	{Ticker: "AXS", Name: "Axie Infinity", Aliases: []string{"axie infinity", "axs"}, Confidence: 0.88, Sectors: []string{models.SectorGaming}},
	{Ticker: "MANA", Name: "Decentraland", Aliases: []string{"decentraland", "mana"}, Confidence: 0.87, Sectors: []string{models.SectorGaming, models.SectorMetaverse}},

	// Meme coins
	{Ticker: "PEPE", Name: "Pepe", Aliases: []string{"pepe"}, Confidence: 0.80, Sectors: []string{models.SectorMeme}},
	{Ticker: "DOGE", Name: "Dogecoin", Aliases: []string{"dogecoin", "doge"}, Confidence: 0.85, Sectors: []string{models.SectorMeme}},
	{Ticker: "SHIB", Name: "Shiba Inu", Aliases: []string{"shiba inu", "shib"}, Confidence: 0.84, Sectors: []string{models.SectorMeme}},

	// Stablecoins
	{Ticker: "USDT", Name: "Tether", Aliases: []string{"tether", "usdt"}, Confidence: 0.96, Sectors: []string{models.SectorStablecoin}},
	{Ticker: "USDC", Name: "USD Coin", Aliases: []string{"usd coin", "usdc"}, Confidence: 0.95, Sectors: []string{models.SectorStablecoin}},
	{Ticker: "DAI", Name: "Dai", Aliases: []string{"dai"}, Confidence: 0.94, Sectors: []string{models.SectorStablecoin}},

	// Layer 2s and scaling
	{Ticker: "ARB", Name: "Arbitrum", Aliases: []string{"arbitrum", "arb"}, Confidence: 0.93, Sectors: []string{models.SectorLayer2}},
	{Ticker: "OP", Name: "Optimism", Aliases: []string{"optimism", "op"}, Confidence: 0.92, Sectors: []string{models.SectorLayer2}},
	{Ticker: "IMX", Name: "Immutable", Aliases: []string{"immutable", "imx"}, Confidence: 0.90, Sectors: []string{models.SectorLayer2, models.SectorGaming}},
}

// sectorTable maps sectors to member tickers for broad requests. Members must
// exist in assetTable; order is the resolution order for sector expansion.
var sectorTable = []struct {
	name    string
	members []string
}{
	{models.SectorAI, []string{"FET", "NEAR", "RNDR", "OCEAN", "AGIX"}},
	{models.SectorDeFi, []string{"AAVE", "COMP", "SUSHI", "UNI"}},
	{models.SectorGaming, []string{"AXS", "MANA", "IMX"}},
	{models.SectorLayer1, []string{"BTC", "ETH", "SOL", "ADA", "DOT", "AVAX"}},
	{models.SectorLayer2, []string{"ARB", "OP", "MATIC"}},
	{models.SectorMeme, []string{"PEPE", "DOGE", "SHIB"}},
	{models.SectorStablecoin, []string{"USDT", "USDC", "DAI"}},
}

// misspellingTable maps common misspellings and full names to tickers.
var misspellingTable = map[string]string{
	"etherium":     "ETH",
	"bitcon":       "BTC",
	"solana":       "SOL",
	"polkadot":     "DOT",
	"chainlink":    "LINK",
	"uniswap":      "UNI",
	"litecoin":     "LTC",
	"bitcoin cash": "BCH",
	"polygon":      "MATIC",
	"avalanche":    "AVAX",
	"cosmos":       "ATOM",
	"algorand":     "ALGO",
	"stellar":      "XLM",
	"vechain":      "VET",
}
