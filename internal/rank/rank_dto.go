package rank

type CreateRankRequest struct {
	Name  string `json:"name" binding:"required"`
	Level int    `json:"level" binding:"min=0"`
}

type CreateAliasRequest struct {
	Value    string `json:"value" binding:"required"`
	RankName string `json:"rank_name" binding:"required"`
}

type RankResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type AliasResponse struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	RankName string `json:"rank_name"`
}

type DirectoryResponse struct {
	Ranks   []RankResponse  `json:"ranks"`
	Aliases []AliasResponse `json:"aliases"`
}

type ResolveResponse struct {
	Raw       string `json:"raw"`
	Canonical string `json:"canonical"`
	Level     int    `json:"level"`
	Resolved  bool   `json:"resolved"`
}
