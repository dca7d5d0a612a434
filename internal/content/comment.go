package content

import "encoding/json"

// Comment is a reader comment attached to the page whose route equals Path.
// Comments are reader input and are never validated; one whose Path matches
// no route is simply not shown.
type Comment struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Comment  string `json:"comment"`
	Date     string `json:"date"`
	Approved bool   `json:"approved"`
}

type commentWire struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Comment  string `json:"comment"`
	Date     string `json:"date"`
	Approved flag   `json:"approved"`
}

func (c *Comment) UnmarshalJSON(data []byte) error {
	var w commentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = Comment{Path: w.Path, Name: w.Name, Comment: w.Comment, Date: w.Date, Approved: bool(w.Approved)}
	return nil
}
