package models

type City struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type FamilyStatus struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
