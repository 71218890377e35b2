package buttons

import "testing"

func TestChanButtonsSendAfterStop(t *testing.T) {
	b := NewChanButtons()
	if !b.Send(Event{Kind: Press, Key: 2}) {
		t.Fatal("send failed")
	}
	if ev := <-b.Events(); ev.Key != 2 || ev.Kind != Press {
		t.Fatalf("event = %+v", ev)
	}
	_ = b.Stop()
	_ = b.Stop()
	if b.Send(Event{Kind: Press}) {
		t.Fatal("send after stop should be dropped")
	}
}

func TestChanButtonsDropsWhenFull(t *testing.T) {
	b := NewChanButtons()
	for i := 0; i < cap(b.ch); i++ {
		b.Send(Event{Kind: Press, Key: i})
	}
	if b.Send(Event{Kind: Press}) {
		t.Fatal("expected drop on full queue")
	}
}
