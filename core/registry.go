package core

// WalletInfo describes a supported wallet and how to reach it on a device
type WalletInfo struct {
	Type       WalletType `json:"type"`
	Name       string     `json:"name"`
	ChainType  ChainType  `json:"chain_type"`
	Scheme     string     `json:"scheme,omitempty"`      // deep-link scheme used for install checks
	AppStore   string     `json:"app_store,omitempty"`   // iOS install URL
	PlayStore  string     `json:"play_store,omitempty"`  // Android install URL
	RelayBased bool       `json:"relay_based,omitempty"` // connects through the EVM relay modal
}

// SupportedWallets lists every wallet the client can connect to
var SupportedWallets = []WalletInfo{
	{
		Type:       WalletMetaMask,
		Name:       "MetaMask",
		ChainType:  ChainEVM,
		Scheme:     "metamask://",
		AppStore:   "https://apps.apple.com/app/metamask/id1438144202",
		PlayStore:  "https://play.google.com/store/apps/details?id=io.metamask",
		RelayBased: true,
	},
	{
		Type:       WalletWalletConnect,
		Name:       "WalletConnect",
		ChainType:  ChainEVM,
		RelayBased: true,
	},
	{
		Type:       WalletCoinbase,
		Name:       "Coinbase Wallet",
		ChainType:  ChainEVM,
		Scheme:     "cbwallet://",
		RelayBased: true,
	},
	{
		Type:      WalletPhantom,
		Name:      "Phantom",
		ChainType: ChainSolana,
		Scheme:    "phantom://",
		AppStore:  "https://apps.apple.com/app/phantom-solana-wallet/id1598432977",
		PlayStore: "https://play.google.com/store/apps/details?id=app.phantom",
	},
	{
		Type:      WalletSolflare,
		Name:      "Solflare",
		ChainType: ChainSolana,
		Scheme:    "solflare://",
	},
}

// LookupWallet finds a wallet in the registry
func LookupWallet(walletType WalletType) (WalletInfo, bool) {
	for _, w := range SupportedWallets {
		if w.Type == walletType {
			return w, true
		}
	}
	return WalletInfo{}, false
}

// WalletsForChain returns the registered wallets of a chain
func WalletsForChain(chain ChainType) []WalletInfo {
	var out []WalletInfo
	for _, w := range SupportedWallets {
		if w.ChainType == chain {
			out = append(out, w)
		}
	}
	return out
}
