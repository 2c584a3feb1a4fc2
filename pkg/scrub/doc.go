// Package scrub detects and anonymizes personally identifiable information
// in free text: names, contact details, government identifiers, network and
// device identifiers.
//
// Quick start:
//
//	s, err := scrub.New(scrub.WithStrategy("mask"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	out, _ := s.Anonymize(ctx, "call Jane on 0412 345 678")
//	fmt.Println(out) // call Jane on 041* *** ***
//
// The Scrub instance is safe for concurrent use. Create once, reuse across
// requests; loading the optional NER model is the expensive part.
package scrub
